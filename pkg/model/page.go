package model

// Page is one frame of physical memory. A frame whose Process is NoProcess is free.
type Page struct {
	Index      int       `json:"page"`
	Process    ProcessID `json:"process"`
	LastAccess int64     `json:"last_access"`
}

// Free reports whether the frame holds no page.
func (p Page) Free() bool {
	return p.Process == NoProcess
}

// Holds reports whether the frame holds page index of process id.
func (p Page) Holds(id ProcessID, index int) bool {
	return p.Process == id && p.Process != NoProcess && p.Index == index
}
