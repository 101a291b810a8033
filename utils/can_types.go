package utils

import "sort"

// SignalDef describes one scalar signal inside a CAN frame. For the
// gripper rig the interesting signals are joint angles (rad) on the state
// frame, joint forces (N) on the command frame, and the single angle_rad
// signal on each target frame.
type SignalDef struct {
	Name       string
	StartBit   int
	BitLength  int
	Signed     bool
	Factor     float64
	Offset     float64
	Min        float64
	Max        float64
	Default    float64
	Unit       string
	Comment    string
	Endianness string // only "little" supported
}

// FrameDef describes one CAN frame and its signal layout.
type FrameDef struct {
	ID        uint32
	Name      string
	DLC       int
	Direction string
	CycleMS   int
	Signals   []SignalDef
}

// Signal looks up a signal by name within the frame.
func (fd *FrameDef) Signal(name string) (*SignalDef, bool) {
	for i := range fd.Signals {
		if fd.Signals[i].Name == name {
			return &fd.Signals[i], true
		}
	}
	return nil, false
}

// HasSignal reports whether the frame carries a signal with that name.
// The driver uses it to resolve configured joint names against the state
// and command frames at load time.
func (fd *FrameDef) HasSignal(name string) bool {
	_, ok := fd.Signal(name)
	return ok
}

// CANMap indexes the rig's frame definitions by ID and by name.
type CANMap struct {
	ByID   map[uint32]*FrameDef
	ByName map[string]*FrameDef
}

func (m *CANMap) FrameNames() []string {
	out := make([]string, 0, len(m.ByName))
	for k := range m.ByName {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
