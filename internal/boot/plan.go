package boot

import "fmt"

// Assignment pairs a unit index with the orientation it receives.
type Assignment struct {
	Unit        int
	Orientation Orientation
}

// Plan describes the unit population and which units each phase allocates.
// It is plain data so a deployment profile can reshape the allocation
// schedule without code changes.
type Plan struct {
	Units    int
	Sparse   []Assignment
	Remember []Assignment
	Active   []Assignment
}

// ReferencePlan returns the 8-unit reference schedule: the Sparse phase
// allocates the north/east units, Remember the south/west units, and Active
// the remaining diagonals.
func ReferencePlan() Plan {
	return Plan{
		Units: 8,
		Sparse: []Assignment{
			{Unit: 0, Orientation: North},
			{Unit: 1, Orientation: Northeast},
			{Unit: 2, Orientation: East},
		},
		Remember: []Assignment{
			{Unit: 4, Orientation: South},
			{Unit: 5, Orientation: Southwest},
			{Unit: 6, Orientation: West},
		},
		Active: []Assignment{
			{Unit: 3, Orientation: Southeast},
			{Unit: 7, Orientation: Northwest},
		},
	}
}

// Validate checks that every assignment targets a unit inside the
// population.
func (p Plan) Validate() error {
	if p.Units <= 0 {
		return fmt.Errorf("plan needs a positive unit population, got %d", p.Units)
	}
	for phase, assignments := range map[string][]Assignment{
		"sparse":   p.Sparse,
		"remember": p.Remember,
		"active":   p.Active,
	} {
		for _, a := range assignments {
			if a.Unit < 0 || a.Unit >= p.Units {
				return fmt.Errorf("%s phase allocates unit %d outside population of %d", phase, a.Unit, p.Units)
			}
		}
	}
	return nil
}
