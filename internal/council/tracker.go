package council

// Model statuses.
const (
	StatusIdle     = "idle"
	StatusThinking = "thinking"
	StatusSpeaking = "speaking"
	StatusVoted    = "voted"
)

// Phases of a session.
const (
	PhaseIdle         = "idle"
	PhaseDeliberating = "deliberating"
	PhaseVoting       = "voting"
	PhaseConcluded    = "concluded"
)

// Transition records a model status change caused by one event.
type Transition struct {
	Model string
	From  string
	To    string
}

// Tracker folds events into per-model status and the session phase.
type Tracker struct {
	order   []string
	status  map[string]string
	phase   string
	round   int
	verdict string
}

// NewTracker returns a tracker with no models and phase idle.
func NewTracker() *Tracker {
	return &Tracker{status: make(map[string]string), phase: PhaseIdle}
}

// Apply folds e into the tracker and returns the status changes it caused.
// Session and round starts reset every known model to idle.
func (t *Tracker) Apply(e Event) []Transition {
	var changes []Transition
	switch e.Type {
	case TypeSessionStart, TypeRoundStart:
		for _, m := range t.order {
			if t.status[m] != StatusIdle {
				changes = append(changes, Transition{Model: m, From: t.status[m], To: StatusIdle})
				t.status[m] = StatusIdle
			}
		}
		if e.Type == TypeSessionStart {
			t.round = 0
			t.verdict = ""
		}
		if e.Round > 0 {
			t.round = e.Round
		}
		t.phase = PhaseDeliberating
	case TypeThinking:
		changes = t.set(e.Model, StatusThinking)
		if t.phase != PhaseVoting {
			t.phase = PhaseDeliberating
		}
	case TypeResponse:
		changes = t.set(e.Model, StatusSpeaking)
		if t.phase != PhaseVoting {
			t.phase = PhaseDeliberating
		}
	case TypeVote:
		changes = t.set(e.Model, StatusVoted)
		t.phase = PhaseVoting
	case TypeConsensus:
		t.phase = PhaseConcluded
		t.verdict = e.Content
		if t.verdict == "" {
			t.verdict = e.Vote
		}
	}
	return changes
}

func (t *Tracker) set(model, status string) []Transition {
	if model == "" {
		return nil
	}
	prev, known := t.status[model]
	if !known {
		t.order = append(t.order, model)
		prev = StatusIdle
	}
	t.status[model] = status
	if prev == status {
		return nil
	}
	return []Transition{{Model: model, From: prev, To: status}}
}

// Status returns the status of model, idle when unknown.
func (t *Tracker) Status(model string) string {
	if s, ok := t.status[model]; ok {
		return s
	}
	return StatusIdle
}

// Models returns the models seen so far in first-seen order.
func (t *Tracker) Models() []string {
	return append([]string(nil), t.order...)
}

// Phase returns the current session phase.
func (t *Tracker) Phase() string { return t.phase }

// Round returns the latest round number seen.
func (t *Tracker) Round() int { return t.round }

// Verdict returns the consensus text once the session has concluded.
func (t *Tracker) Verdict() string { return t.verdict }
