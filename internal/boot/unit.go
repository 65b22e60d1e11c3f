package boot

import "fmt"

// Orientation is a compass-like label attached to a unit at allocation
// time. It carries no behavior.
type Orientation uint8

const (
	North Orientation = iota
	Northeast
	East
	Southeast
	South
	Southwest
	West
	Northwest
)

var orientationNames = map[Orientation]string{
	North:     "north",
	Northeast: "northeast",
	East:      "east",
	Southeast: "southeast",
	South:     "south",
	Southwest: "southwest",
	West:      "west",
	Northwest: "northwest",
}

// String implements fmt.Stringer.
func (o Orientation) String() string {
	if name, ok := orientationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("orientation(%d)", uint8(o))
}

// ParseOrientation converts a profile string into an Orientation.
func ParseOrientation(s string) (Orientation, error) {
	for o, name := range orientationNames {
		if name == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown orientation %q", s)
}

// Stage mirrors the machine's phases per unit. A unit's stage is tracked
// independently of the machine's phase and never regresses.
type Stage uint8

const (
	StageSparse Stage = iota
	StageRemember
	StageActive
	StageVerify
)

// String implements fmt.Stringer.
func (s Stage) String() string {
	switch s {
	case StageSparse:
		return "sparse"
	case StageRemember:
		return "remember"
	case StageActive:
		return "active"
	case StageVerify:
		return "verify"
	}
	return fmt.Sprintf("stage(%d)", uint8(s))
}

// Unit is one allocation record in the population the verdict is computed
// over. The zero value is a fresh unit: north-facing, unallocated, Sparse.
type Unit struct {
	Orientation   Orientation
	HalfAllocated bool
	Stage         Stage
}

// allocate points the unit and marks it allocated. A Sparse unit advances
// to Remember; any later stage is left alone so the stage stays monotonic.
func (u *Unit) allocate(o Orientation) {
	u.Orientation = o
	u.HalfAllocated = true
	if u.Stage == StageSparse {
		u.Stage = StageRemember
	}
}
