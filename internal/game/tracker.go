package game

// Mastery and celebration thresholds
const (
	MaxMastery          = 5
	CelebrationInterval = 3
)

// MasteryHook observes every mastery counter update. It runs while the
// owning session is locked and must not call back into the session.
type MasteryHook func(promptID string, mastery int)

// Tracker keeps per-prompt mastery counters and the consecutive-correct streak
type Tracker struct {
	mastery map[string]int
	streak  int
	hook    MasteryHook
}

// NewTracker creates an empty tracker; hook may be nil
func NewTracker(hook MasteryHook) *Tracker {
	return &Tracker{mastery: make(map[string]int), hook: hook}
}

// RecordCorrect bumps the prompt's mastery (capped at MaxMastery) and the
// streak, and reports whether the streak hit a celebration milestone.
func (t *Tracker) RecordCorrect(promptID string) bool {
	m := t.mastery[promptID] + 1
	if m > MaxMastery {
		m = MaxMastery
	}
	t.mastery[promptID] = m
	t.streak++
	if t.hook != nil {
		t.hook(promptID, m)
	}
	return t.streak%CelebrationInterval == 0
}

// RecordIncorrect breaks the streak; mastery is left unchanged
func (t *Tracker) RecordIncorrect() {
	t.streak = 0
}

// Mastery returns the counter for a prompt
func (t *Tracker) Mastery(promptID string) int {
	return t.mastery[promptID]
}

// Streak returns the current consecutive-correct count
func (t *Tracker) Streak() int {
	return t.streak
}

// Progress returns a copy of the mastery map
func (t *Tracker) Progress() map[string]int {
	out := make(map[string]int, len(t.mastery))
	for k, v := range t.mastery {
		out[k] = v
	}
	return out
}

// Reset clears all counters
func (t *Tracker) Reset() {
	t.mastery = make(map[string]int)
	t.streak = 0
}
