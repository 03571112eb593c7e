package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindbridge/internal/catalog"
	"mindbridge/internal/models"
)

type recordingSink struct {
	mu      sync.Mutex
	records []models.ResultRecord
	err     error
}

func (s *recordingSink) SaveResult(_ context.Context, rec models.ResultRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.records = append(s.records, rec)
	return "rec-1", nil
}

func (s *recordingSink) saved() []models.ResultRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ResultRecord(nil), s.records...)
}

type harness struct {
	session  *Session
	sched    *ManualScheduler
	sink     *recordingSink
	reporter *Reporter
}

func newHarness(t *testing.T, gt catalog.GameType, mode Mode, d catalog.Difficulty) *harness {
	t.Helper()
	sched := NewManualScheduler()
	sink := &recordingSink{}
	reporter := NewReporter(sink, time.Second)
	s, err := NewSession(Config{
		Game:        mustGame(t, gt),
		Mode:        mode,
		Difficulty:  d,
		Participant: models.Participant{UserID: 1, Name: "Mia", Email: "mia@example.com", Age: 7},
		Scheduler:   sched,
		Reporter:    reporter,
		Rand:        testRand(),
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return &harness{session: s, sched: sched, sink: sink, reporter: reporter}
}

// answer submits the correct (or a wrong) choice and lets the feedback window elapse
func (h *harness) answer(t *testing.T, correct bool) Outcome {
	t.Helper()
	snap := h.session.Snapshot()
	choice := snap.Prompt.Answer
	if !correct {
		for _, o := range snap.Options {
			if o != choice {
				choice = o
				break
			}
		}
	}
	out, err := h.session.SelectAnswer(choice)
	require.NoError(t, err)
	h.sched.Advance(h.session.game.FeedbackDelay)
	return out
}

func TestEasyQuizCompletesWithOneWrite(t *testing.T) {
	h := newHarness(t, catalog.ColorShape, Quiz, catalog.Easy)

	var last Outcome
	for i := 0; i < 5; i++ {
		last = h.answer(t, true)
	}
	h.reporter.Wait()

	snap := h.session.Snapshot()
	assert.True(t, last.Completed)
	assert.Equal(t, 5, snap.Score)
	assert.Equal(t, 5, snap.QuestionCount)
	assert.True(t, snap.Over)
	assert.True(t, snap.ResultSaved)

	saved := h.sink.saved()
	require.Len(t, saved, 1)
	assert.Equal(t, 5, saved[0].Score)
	assert.Equal(t, "Shape Recognition", saved[0].GameName)
	assert.Equal(t, "easy", saved[0].Difficulty)
	assert.Equal(t, "Mia", saved[0].ParticipantName)
	assert.Equal(t, 7, saved[0].ParticipantAge)
	// four feedback windows of three seconds elapse before the last answer
	assert.Equal(t, 12, saved[0].TimeTaken)

	_, err := h.session.SelectAnswer(snap.Prompt.Answer)
	assert.ErrorIs(t, err, ErrSessionOver)
	h.reporter.Wait()
	assert.Len(t, h.sink.saved(), 1)
}

func TestQuizStopsTimersOnCompletion(t *testing.T) {
	h := newHarness(t, catalog.Math, Quiz, catalog.Easy)
	for i := 0; i < 5; i++ {
		h.answer(t, i%2 == 0)
	}
	elapsed := h.session.Snapshot().ElapsedSeconds
	h.sched.Advance(10 * time.Second)
	h.session.Tick()

	snap := h.session.Snapshot()
	assert.Equal(t, elapsed, snap.ElapsedSeconds)
	assert.Equal(t, 3, snap.Score)
	assert.Equal(t, 0, h.sched.Pending())
}

func TestQuestionCountNeverExceedsTarget(t *testing.T) {
	h := newHarness(t, catalog.Objects, Quiz, catalog.Medium)
	for i := 0; i < 20; i++ {
		before := h.session.Snapshot()
		out, err := h.session.SelectAnswer(before.Prompt.Answer)
		after := h.session.Snapshot()
		if before.Over {
			assert.ErrorIs(t, err, ErrSessionOver)
			assert.Equal(t, before.QuestionCount, after.QuestionCount)
		} else {
			require.NoError(t, err)
			assert.Equal(t, before.QuestionCount+1, after.QuestionCount)
			assert.True(t, out.Correct)
		}
		assert.LessOrEqual(t, after.QuestionCount, after.TargetQuestions)
		h.sched.Advance(3 * time.Second)
	}
}

func TestAnswerWhileDisabledIsIgnored(t *testing.T) {
	h := newHarness(t, catalog.Speech, Quiz, catalog.Easy)
	snap := h.session.Snapshot()
	_, err := h.session.SelectAnswer(snap.Prompt.Answer)
	require.NoError(t, err)

	before := h.session.Snapshot()
	require.True(t, before.Disabled)
	_, err = h.session.SelectAnswer(before.Prompt.Answer)
	assert.ErrorIs(t, err, ErrInputDisabled)

	after := h.session.Snapshot()
	assert.Equal(t, before, after)

	h.sched.Advance(3 * time.Second)
	assert.False(t, h.session.Snapshot().Disabled)
}

func TestPracticeNeverCompletes(t *testing.T) {
	h := newHarness(t, catalog.ColorShape, Practice, catalog.Easy)
	var names []string
	for i := 0; i < 12; i++ {
		names = append(names, h.session.Snapshot().Prompt.Name)
		h.answer(t, true)
	}
	snap := h.session.Snapshot()
	assert.False(t, snap.Over)
	assert.Equal(t, 12, snap.QuestionCount)
	assert.Equal(t, 0, snap.ElapsedSeconds)
	assert.Equal(t, []string{"Circle", "Square", "Triangle", "Star"}, names[:4])
	assert.Equal(t, names[:4], names[4:8])

	h.reporter.Wait()
	assert.Empty(t, h.sink.saved())
}

func TestPracticeFeedbackIncludesTip(t *testing.T) {
	h := newHarness(t, catalog.Objects, Practice, catalog.Easy)
	out := h.answer(t, false)
	assert.False(t, out.Correct)
	assert.Equal(t, "Let's try again! Knife is actually harmful. A sharp tool used for cutting Safety tip: Never run with knives.", out.Message)
	assert.Equal(t, "Never run with knives", out.Tip)

	out = h.answer(t, true)
	assert.Equal(t, "Great job! Ball is non-harmful! A round object used for playing games Remember: Safe to play with!", out.Message)
}

func TestStreakAndCelebration(t *testing.T) {
	h := newHarness(t, catalog.ColorShape, Practice, catalog.Medium)

	var celebrations []EventType
	h.session.Subscribe(func(ev Event) {
		if ev.Type == EventCelebrate {
			celebrations = append(celebrations, ev.Type)
		}
	})

	assert.False(t, h.answer(t, true).Celebrate)
	assert.False(t, h.answer(t, true).Celebrate)
	assert.True(t, h.answer(t, true).Celebrate)
	assert.Equal(t, 3, h.session.Snapshot().Streak)

	h.answer(t, false)
	snap := h.session.Snapshot()
	assert.Equal(t, 0, snap.Streak)
	assert.Equal(t, 3, snap.Score)
	assert.Len(t, celebrations, 1)
}

func TestMasteryHookReceivesUpdates(t *testing.T) {
	var mu sync.Mutex
	updates := map[string]int{}
	s, err := NewSession(Config{
		Game:       mustGame(t, catalog.Speech),
		Mode:       Practice,
		Difficulty: catalog.Easy,
		Scheduler:  NewManualScheduler(),
		Rand:       testRand(),
		MasteryHook: func(id string, m int) {
			mu.Lock()
			updates[id] = m
			mu.Unlock()
		},
	})
	require.NoError(t, err)
	defer s.Close()

	snap := s.Snapshot()
	_, err = s.SelectAnswer(snap.Prompt.Answer)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{snap.Prompt.ID: 1}, updates)
	assert.Equal(t, 1, s.Snapshot().Mastery[snap.Prompt.ID])
}

func TestResetClearsEverything(t *testing.T) {
	h := newHarness(t, catalog.ColorShape, Quiz, catalog.Easy)
	for i := 0; i < 5; i++ {
		h.answer(t, true)
	}
	require.True(t, h.session.Snapshot().Over)

	require.NoError(t, h.session.Reset())
	snap := h.session.Snapshot()
	assert.Equal(t, 0, snap.Score)
	assert.Equal(t, 0, snap.QuestionCount)
	assert.Equal(t, 0, snap.ElapsedSeconds)
	assert.Equal(t, 0, snap.Streak)
	assert.False(t, snap.Over)
	assert.False(t, snap.ResultSaved)
	assert.False(t, snap.Disabled)
	assert.Empty(t, snap.Mastery)

	h.sched.Advance(2 * time.Second)
	assert.Equal(t, 2, h.session.Snapshot().ElapsedSeconds)

	// a second completed run is a new completion and reports again
	for i := 0; i < 5; i++ {
		h.answer(t, true)
	}
	h.reporter.Wait()
	assert.Len(t, h.sink.saved(), 2)
}

func TestSetModeRestartsTicker(t *testing.T) {
	h := newHarness(t, catalog.Speech, Practice, catalog.Easy)
	h.sched.Advance(5 * time.Second)
	h.session.Tick()
	assert.Equal(t, 0, h.session.Snapshot().ElapsedSeconds)

	require.NoError(t, h.session.SetMode(Quiz))
	h.sched.Advance(3 * time.Second)
	assert.Equal(t, 3, h.session.Snapshot().ElapsedSeconds)

	require.NoError(t, h.session.SetMode(Practice))
	h.sched.Advance(3 * time.Second)
	snap := h.session.Snapshot()
	assert.Equal(t, Practice, snap.Mode)
	assert.Equal(t, 0, snap.ElapsedSeconds)

	assert.Error(t, h.session.SetMode(Mode("battle")))
}

func TestSetDifficultyChangesOptions(t *testing.T) {
	h := newHarness(t, catalog.ColorShape, Quiz, catalog.Easy)
	h.answer(t, true)
	require.Len(t, h.session.Snapshot().Options, 2)

	require.NoError(t, h.session.SetDifficulty(catalog.Hard))
	snap := h.session.Snapshot()
	assert.Equal(t, catalog.Hard, snap.Difficulty)
	assert.Len(t, snap.Options, 4)
	assert.Equal(t, 10, snap.TargetQuestions)
	assert.Equal(t, 0, snap.QuestionCount)

	assert.Error(t, h.session.SetDifficulty(catalog.Difficulty("impossible")))
	assert.Equal(t, catalog.Hard, h.session.Snapshot().Difficulty)
}

func TestStaleAdvanceIgnoredAfterReset(t *testing.T) {
	h := newHarness(t, catalog.ColorShape, Practice, catalog.Easy)
	first := h.session.Snapshot().Prompt
	_, err := h.session.SelectAnswer(first.Answer)
	require.NoError(t, err)
	require.NoError(t, h.session.Reset())

	h.sched.Advance(3 * time.Second)
	assert.Equal(t, first.ID, h.session.Snapshot().Prompt.ID)
}

func TestCloseCancelsTasks(t *testing.T) {
	h := newHarness(t, catalog.Math, Quiz, catalog.Medium)
	_, err := h.session.SelectAnswer(h.session.Snapshot().Prompt.Answer)
	require.NoError(t, err)
	require.Equal(t, 2, h.sched.Pending())

	h.session.Close()
	assert.Equal(t, 0, h.sched.Pending())
	assert.True(t, h.session.Closed())

	_, err = h.session.SelectAnswer("1")
	assert.ErrorIs(t, err, ErrSessionOver)
	assert.ErrorIs(t, h.session.Reset(), ErrSessionOver)
}

func TestListenersReceiveEvents(t *testing.T) {
	h := newHarness(t, catalog.ColorShape, Quiz, catalog.Easy)

	var mu sync.Mutex
	var types []EventType
	unsubscribe := h.session.Subscribe(func(ev Event) {
		// listeners run outside the session lock
		_ = h.session.Snapshot()
		mu.Lock()
		types = append(types, ev.Type)
		mu.Unlock()
	})

	h.sched.Advance(time.Second)
	h.answer(t, true)
	unsubscribe()
	h.answer(t, true)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []EventType{EventTick, EventFeedback, EventTick, EventTick, EventTick, EventAdvance}, types)
}

func TestFailedWriteStillReportsSaved(t *testing.T) {
	h := newHarness(t, catalog.ColorShape, Quiz, catalog.Easy)
	h.sink.err = errors.New("store unavailable")
	for i := 0; i < 5; i++ {
		h.answer(t, false)
	}
	h.reporter.Wait()

	snap := h.session.Snapshot()
	assert.True(t, snap.Over)
	assert.True(t, snap.ResultSaved)
	assert.Equal(t, 0, snap.Score)
	assert.Empty(t, h.sink.saved())
}

func TestNewSessionValidation(t *testing.T) {
	_, err := NewSession(Config{Mode: Quiz, Difficulty: catalog.Easy})
	assert.Error(t, err)

	g := mustGame(t, catalog.ColorShape)
	_, err = NewSession(Config{Game: g, Mode: "race", Difficulty: catalog.Easy})
	assert.Error(t, err)

	_, err = NewSession(Config{Game: g, Mode: Quiz, Difficulty: "expert"})
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Quiz ")
	require.NoError(t, err)
	assert.Equal(t, Quiz, m)

	_, err = ParseMode("")
	assert.Error(t, err)
}
