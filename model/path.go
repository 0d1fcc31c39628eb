package model

import "math/rand/v2"

// branch is one recorded scheduling decision.
type branch struct {
	n      int // number of options
	chosen int
}

// path records the decisions of an execution so the next one can replay a
// prefix and take a different branch at the deepest undecided point.
//
// Decisions with a single option are not recorded.
type path struct {
	branches []branch
	pos      int
	rng      *rand.Rand
}

func newPath(cfg Config) *path {
	p := &path{}
	if cfg.random() {
		p.rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	}
	return p
}

// choose returns the option to take among n.
func (p *path) choose(n int) (int, error) {
	if n == 1 {
		return 0, nil
	}

	if p.pos < len(p.branches) {
		b := p.branches[p.pos]
		if b.n != n {
			return 0, ErrNondeterministic
		}
		p.pos++
		return b.chosen, nil
	}

	chosen := 0
	if p.rng != nil {
		chosen = p.rng.IntN(n)
	}
	p.branches = append(p.branches, branch{n: n, chosen: chosen})
	p.pos++
	return chosen, nil
}

// next advances to the next unexplored path. It returns false when the
// search is complete.
func (p *path) next() bool {
	p.pos = 0
	if p.rng != nil {
		p.branches = p.branches[:0]
		return true
	}

	for i := len(p.branches) - 1; i >= 0; i-- {
		if p.branches[i].chosen+1 < p.branches[i].n {
			p.branches[i].chosen++
			p.branches = p.branches[:i+1]
			return true
		}
	}
	p.branches = p.branches[:0]
	return false
}

// depth returns the number of recorded decisions.
func (p *path) depth() int {
	return len(p.branches)
}
