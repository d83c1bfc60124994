package program

// Phase is the training focus of a week.
type Phase string

const (
	PhaseAccumulation Phase = "accumulation"
	PhaseOverreach    Phase = "overreach"
	PhaseDeload       Phase = "deload"
)

// Guidance tells the lifter how hard to push in a week.
type Guidance struct {
	Week      int    `json:"week"`
	Phase     Phase  `json:"phase"`
	RIR       string `json:"rir"`
	MesoCycle int    `json:"meso_cycle"`
	Note      string `json:"note"`
}

// GuidanceFor returns the phase and target reps-in-reserve for week.
func GuidanceFor(week int) (Guidance, error) {
	if err := ValidateWeek(week); err != nil {
		return Guidance{}, err
	}
	g := Guidance{Week: week, MesoCycle: MesoCycle(week)}
	switch {
	case IsDeload(week):
		g.Phase, g.RIR = PhaseDeload, "4+"
		g.Note = "Recover: half the sets, keep the weights light."
	case week == 4 || week == 9:
		g.Phase, g.RIR = PhaseOverreach, "0-1"
		g.Note = "Overreach: take every working set close to failure."
	default:
		g.Phase, g.RIR = PhaseAccumulation, "2-3"
		g.Note = "Accumulate: add load when all reps are clean."
	}
	return g, nil
}
