package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mindbridge/internal/catalog"
	"mindbridge/internal/models"
)

var (
	ErrInputDisabled = errors.New("input disabled while feedback is shown")
	ErrSessionOver   = errors.New("session is over")
)

// Mode is either open-ended practice or a timed, scored quiz
type Mode string

const (
	Practice Mode = "practice"
	Quiz     Mode = "quiz"
)

// ParseMode normalizes a mode name
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case Practice, Quiz:
		return m, nil
	}
	return "", fmt.Errorf("invalid mode %q", s)
}

// TickInterval is how often elapsed quiz time advances
const TickInterval = time.Second

// Config holds everything needed to start a session
type Config struct {
	Game        *catalog.Game
	Mode        Mode
	Difficulty  catalog.Difficulty
	Participant models.Participant
	Scheduler   Scheduler
	Reporter    *Reporter
	Rand        *rand.Rand
	MasteryHook MasteryHook
}

// Outcome describes the result of one answer
type Outcome struct {
	Correct   bool   `json:"correct"`
	Choice    string `json:"choice"`
	Answer    string `json:"answer"`
	Message   string `json:"message"`
	Tip       string `json:"tip,omitempty"`
	Celebrate bool   `json:"celebrate"`
	Completed bool   `json:"completed"`
}

// Snapshot is a read-only copy of session state for rendering
type Snapshot struct {
	ID              string             `json:"id"`
	Game            catalog.GameType   `json:"game"`
	Title           string             `json:"title"`
	Mode            Mode               `json:"mode"`
	Difficulty      catalog.Difficulty `json:"difficulty"`
	Prompt          catalog.Prompt     `json:"prompt"`
	Options         []string           `json:"options"`
	Hint            string             `json:"hint,omitempty"`
	QuestionCount   int                `json:"questionCount"`
	TargetQuestions int                `json:"targetQuestions"`
	Score           int                `json:"score"`
	Streak          int                `json:"streak"`
	ElapsedSeconds  int                `json:"elapsedSeconds"`
	Disabled        bool               `json:"disabled"`
	Over            bool               `json:"isOver"`
	ResultSaved     bool               `json:"isResultSaved"`
	Feedback        *Outcome           `json:"feedback,omitempty"`
	Mastery         map[string]int     `json:"mastery"`
}

// Session is one participant's live game. All methods are safe for
// concurrent use; listeners are notified after the session lock is released.
type Session struct {
	mu sync.Mutex

	id          string
	game        *catalog.Game
	participant models.Participant
	sched       Scheduler
	reporter    *Reporter
	rng         *rand.Rand

	mode       Mode
	difficulty catalog.Difficulty
	level      catalog.Level
	deck       Deck
	tracker    *Tracker

	current       catalog.Prompt
	options       []string
	questionCount int
	score         int
	elapsed       int
	disabled      bool
	over          bool
	resultSaved   bool
	closed        bool
	lastOutcome   *Outcome

	// gen invalidates callbacks scheduled before the latest reset or close
	gen         uint64
	advanceTask Task
	tickTask    Task

	listeners map[int]Listener
	nextSub   int
}

// NewSession validates cfg and starts a session at its first prompt
func NewSession(cfg Config) (*Session, error) {
	if cfg.Game == nil {
		return nil, errors.New("game is required")
	}
	mode, err := ParseMode(string(cfg.Mode))
	if err != nil {
		return nil, err
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = NewScheduler()
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	s := &Session{
		id:          uuid.New().String(),
		game:        cfg.Game,
		participant: cfg.Participant,
		sched:       cfg.Scheduler,
		reporter:    cfg.Reporter,
		rng:         cfg.Rand,
		mode:        mode,
		tracker:     NewTracker(cfg.MasteryHook),
		listeners:   make(map[int]Listener),
	}
	if err := s.applyDifficulty(cfg.Difficulty); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
	return s, nil
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// GameType returns the game this session plays
func (s *Session) GameType() catalog.GameType {
	return s.game.Type
}

func (s *Session) applyDifficulty(d catalog.Difficulty) error {
	lvl, err := s.game.Level(d)
	if err != nil {
		return err
	}
	deck, err := NewDeck(s.game, d, s.rng)
	if err != nil {
		return err
	}
	s.difficulty = d
	s.level = lvl
	s.deck = deck
	return nil
}

// SelectAnswer scores choice against the current prompt. It is rejected
// without any state change while input is disabled or the session is over.
func (s *Session) SelectAnswer(choice string) (Outcome, error) {
	s.mu.Lock()
	if s.over || s.closed {
		s.mu.Unlock()
		return Outcome{}, ErrSessionOver
	}
	if s.disabled {
		s.mu.Unlock()
		return Outcome{}, ErrInputDisabled
	}

	p := s.current
	correct := choice == p.Answer
	celebrate := false
	if correct {
		s.score++
		celebrate = s.tracker.RecordCorrect(p.ID)
	} else {
		s.tracker.RecordIncorrect()
	}
	s.questionCount++
	s.disabled = true

	msg, tip := feedback(s.game.Type, p, choice, correct, s.mode)
	out := Outcome{
		Correct:   correct,
		Choice:    choice,
		Answer:    p.Answer,
		Message:   msg,
		Tip:       tip,
		Celebrate: celebrate,
	}

	var rec *models.ResultRecord
	if s.mode == Quiz && s.questionCount >= s.level.TargetQuestions {
		out.Completed = true
		rec = s.completeLocked()
	} else {
		gen := s.gen
		s.advanceTask = s.sched.After(s.game.FeedbackDelay, func() { s.advance(gen) })
	}
	s.lastOutcome = &out

	snap := s.snapshotLocked()
	events := []Event{{Type: EventFeedback, State: snap, Outcome: &out}}
	if celebrate {
		events = append(events, Event{Type: EventCelebrate, State: snap, Outcome: &out})
	}
	if out.Completed {
		events = append(events, Event{Type: EventCompleted, State: snap, Outcome: &out})
	}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	if rec != nil {
		s.reporter.Report(*rec)
	}
	dispatch(listeners, events)
	return out, nil
}

// completeLocked marks the quiz finished, cancels pending timers and
// returns the record to report, or nil if one was already reported.
func (s *Session) completeLocked() *models.ResultRecord {
	s.over = true
	s.stopTasksLocked()
	if s.resultSaved {
		return nil
	}
	s.resultSaved = true
	rec := models.NewResultRecord(s.participant, s.game.Title, string(s.difficulty), s.score, s.elapsed)
	return &rec
}

func (s *Session) advance(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.over || s.closed {
		s.mu.Unlock()
		return
	}
	s.advanceTask = nil
	s.current = s.deck.Next(s.current, s.mode)
	s.options = s.deck.Options(s.current)
	s.disabled = false
	s.lastOutcome = nil
	ev := Event{Type: EventAdvance, State: s.snapshotLocked()}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	dispatch(listeners, []Event{ev})
}

// Tick advances elapsed quiz time by one second. It is a no-op outside an
// active quiz.
func (s *Session) Tick() {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	s.tick(gen)
}

func (s *Session) tick(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.mode != Quiz || s.over || s.closed {
		s.mu.Unlock()
		return
	}
	s.elapsed++
	ev := Event{Type: EventTick, State: s.snapshotLocked()}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	dispatch(listeners, []Event{ev})
}

// SetDifficulty switches the prompt pool and option count and resets the session
func (s *Session) SetDifficulty(d catalog.Difficulty) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionOver
	}
	if err := s.applyDifficulty(d); err != nil {
		s.mu.Unlock()
		return err
	}
	s.resetLocked()
	return s.unlockAndPublishState()
}

// SetMode switches between practice and quiz and resets the session
func (s *Session) SetMode(m Mode) error {
	mode, err := ParseMode(string(m))
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionOver
	}
	s.mode = mode
	s.resetLocked()
	return s.unlockAndPublishState()
}

// Reset zeroes all counters, clears progress and re-seeds the first prompt
func (s *Session) Reset() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionOver
	}
	s.resetLocked()
	return s.unlockAndPublishState()
}

func (s *Session) unlockAndPublishState() error {
	ev := Event{Type: EventState, State: s.snapshotLocked()}
	listeners := s.listenersLocked()
	s.mu.Unlock()
	dispatch(listeners, []Event{ev})
	return nil
}

func (s *Session) resetLocked() {
	s.stopTasksLocked()
	s.gen++
	s.tracker.Reset()
	s.questionCount = 0
	s.score = 0
	s.elapsed = 0
	s.disabled = false
	s.over = false
	s.resultSaved = false
	s.lastOutcome = nil
	s.current = s.deck.First(s.mode)
	s.options = s.deck.Options(s.current)
	if s.mode == Quiz {
		gen := s.gen
		s.tickTask = s.sched.Every(TickInterval, func() { s.tick(gen) })
	}
}

func (s *Session) stopTasksLocked() {
	if s.advanceTask != nil {
		s.advanceTask.Stop()
		s.advanceTask = nil
	}
	if s.tickTask != nil {
		s.tickTask.Stop()
		s.tickTask = nil
	}
}

// Close cancels every scheduled task and drops all listeners
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.gen++
	s.stopTasksLocked()
	s.listeners = make(map[int]Listener)
}

// Closed reports whether Close has been called
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:              s.id,
		Game:            s.game.Type,
		Title:           s.game.Title,
		Mode:            s.mode,
		Difficulty:      s.difficulty,
		Prompt:          s.current,
		Options:         append([]string(nil), s.options...),
		Hint:            s.current.Description,
		QuestionCount:   s.questionCount,
		TargetQuestions: s.level.TargetQuestions,
		Score:           s.score,
		Streak:          s.tracker.Streak(),
		ElapsedSeconds:  s.elapsed,
		Disabled:        s.disabled,
		Over:            s.over,
		ResultSaved:     s.resultSaved,
		Mastery:         s.tracker.Progress(),
	}
	if len(s.current.Examples) > 0 {
		snap.Prompt.Examples = append([]string(nil), s.current.Examples...)
	}
	if s.lastOutcome != nil {
		out := *s.lastOutcome
		snap.Feedback = &out
	}
	return snap
}
