package syncshadow

// SyncShadow maps atomic identifiers to their SyncVar.
//
// Identifiers are assigned by the model execution when an atomic is created.
// Not safe for concurrent use: the model scheduler serializes all access.
type SyncShadow struct {
	vars map[uintptr]*SyncVar
}

// NewSyncShadow creates an empty SyncShadow.
func NewSyncShadow() *SyncShadow {
	return &SyncShadow{vars: make(map[uintptr]*SyncVar)}
}

// GetOrCreate returns the SyncVar for the given atomic, creating it if needed.
//
// Example:
//
//	shadow := NewSyncShadow()
//	sv1 := shadow.GetOrCreate(1)  // Allocates SyncVar
//	sv2 := shadow.GetOrCreate(1)  // Returns same SyncVar
func (s *SyncShadow) GetOrCreate(addr uintptr) *SyncVar {
	sv, ok := s.vars[addr]
	if !ok {
		sv = &SyncVar{}
		s.vars[addr] = sv
	}
	return sv
}
