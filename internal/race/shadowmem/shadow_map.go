package shadowmem

// ShadowMemory maps cell identifiers to their VarState.
//
// Identifiers are handed out by the model execution when a cell registers
// its tracker; they are dense and never reused within an execution.
type ShadowMemory struct {
	cells map[uintptr]*VarState
}

// NewShadowMemory creates a new empty shadow memory map.
func NewShadowMemory() *ShadowMemory {
	return &ShadowMemory{cells: make(map[uintptr]*VarState)}
}

// GetOrCreate retrieves the VarState for the given cell, creating it if needed.
func (sm *ShadowMemory) GetOrCreate(addr uintptr) *VarState {
	vs, ok := sm.cells[addr]
	if !ok {
		vs = NewVarState()
		sm.cells[addr] = vs
	}
	return vs
}
