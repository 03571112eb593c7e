package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindbridge/internal/catalog"
	"mindbridge/internal/game"
	"mindbridge/internal/models"
)

type memorySink struct {
	mu      sync.Mutex
	records []models.ResultRecord
}

func (m *memorySink) SaveResult(_ context.Context, rec models.ResultRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return "1", nil
}

func (m *memorySink) ListResults(_ context.Context, email, gameName string, limit int) ([]models.ResultRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ResultRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if r.ParticipantEmail != email || (gameName != "" && r.GameName != gameName) {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memorySink) Close(context.Context) error { return nil }

func (m *memorySink) saved() []models.ResultRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ResultRecord(nil), m.records...)
}

func newGameService(sink *memorySink) (*GameService, *game.ManualScheduler) {
	sched := game.NewManualScheduler()
	svc := NewGameService(game.NewReporter(sink, time.Second), true).
		WithScheduler(func() game.Scheduler { return sched })
	return svc, sched
}

var mia = models.Participant{UserID: 1, Name: "Mia", Email: "mia@example.com", Age: 7}

func TestGameServiceStartAndGet(t *testing.T) {
	svc, _ := newGameService(&memorySink{})
	defer svc.Shutdown()

	_, err := svc.Get("1")
	assert.ErrorIs(t, err, ErrNoActiveSession)

	sess, err := svc.Start("1", StartInput{Game: catalog.ColorShape, Mode: "Practice", Difficulty: "easy", Participant: mia})
	require.NoError(t, err)

	got, err := svc.Get("1")
	require.NoError(t, err)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, svc.Count())

	snap := got.Snapshot()
	assert.Equal(t, game.Practice, snap.Mode)
	assert.Equal(t, catalog.Easy, snap.Difficulty)
}

func TestGameServiceStartRejectsBadInput(t *testing.T) {
	svc, _ := newGameService(&memorySink{})
	defer svc.Shutdown()

	_, err := svc.Start("1", StartInput{Game: "chess", Mode: "quiz", Difficulty: "easy"})
	assert.ErrorIs(t, err, catalog.ErrUnknownGame)

	_, err = svc.Start("1", StartInput{Game: catalog.Math, Mode: "race", Difficulty: "easy"})
	assert.Error(t, err)

	_, err = svc.Start("1", StartInput{Game: catalog.Math, Mode: "quiz", Difficulty: "extreme"})
	assert.Error(t, err)

	assert.Equal(t, 0, svc.Count())
}

func TestGameServiceReplaceClosesOldSession(t *testing.T) {
	svc, _ := newGameService(&memorySink{})
	defer svc.Shutdown()

	first, err := svc.Start("1", StartInput{Game: catalog.Objects, Mode: "quiz", Difficulty: "easy", Participant: mia})
	require.NoError(t, err)
	second, err := svc.Start("1", StartInput{Game: catalog.Math, Mode: "quiz", Difficulty: "easy", Participant: mia})
	require.NoError(t, err)

	assert.True(t, first.Closed())
	assert.False(t, second.Closed())
	assert.Equal(t, 1, svc.Count())

	require.NoError(t, svc.End("1"))
	assert.True(t, second.Closed())
	assert.ErrorIs(t, svc.End("1"), ErrNoActiveSession)
}

func TestGameServiceWatchFollowsReplacement(t *testing.T) {
	svc, sched := newGameService(&memorySink{})
	defer svc.Shutdown()

	var (
		mu     sync.Mutex
		events []game.Event
	)
	stop := svc.Watch("1", func(ev game.Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})

	_, err := svc.Start("1", StartInput{Game: catalog.Math, Mode: "quiz", Difficulty: "easy", Participant: mia})
	require.NoError(t, err)
	sched.Advance(time.Second)

	second, err := svc.Start("1", StartInput{Game: catalog.Speech, Mode: "practice", Difficulty: "easy", Participant: mia})
	require.NoError(t, err)

	mu.Lock()
	require.Len(t, events, 3)
	assert.Equal(t, game.EventState, events[0].Type)
	assert.Equal(t, catalog.Math, events[0].State.Game)
	assert.Equal(t, game.EventTick, events[1].Type)
	assert.Equal(t, game.EventState, events[2].Type)
	assert.Equal(t, catalog.Speech, events[2].State.Game)
	mu.Unlock()

	stop()
	require.NoError(t, second.Reset())

	mu.Lock()
	assert.Len(t, events, 3, "no events after unsubscribing")
	mu.Unlock()
}

func TestGameServiceReportsCompletedQuiz(t *testing.T) {
	sink := &memorySink{}
	svc, sched := newGameService(sink)

	sess, err := svc.Start("guest-abc", StartInput{
		Game:        catalog.ColorShape,
		Mode:        "quiz",
		Difficulty:  "easy",
		Participant: models.ParticipantFromUser(nil),
	})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		snap := sess.Snapshot()
		_, err := sess.SelectAnswer(snap.Prompt.Answer)
		require.NoError(t, err)
		sched.Advance(3 * time.Second)
	}

	svc.Shutdown()

	saved := sink.saved()
	require.Len(t, saved, 1)
	assert.Equal(t, 5, saved[0].Score)
	assert.Equal(t, models.GuestName, saved[0].ParticipantName)
	assert.Equal(t, "Shape Recognition", saved[0].GameName)
	assert.Equal(t, 0, svc.Count())
}

func TestGameServiceEvictIdle(t *testing.T) {
	svc, sched := newGameService(&memorySink{})
	defer svc.Shutdown()

	start := time.Now()
	svc.now = func() time.Time { return start }

	abandoned, err := svc.Start("guest:gone", StartInput{Game: catalog.Math, Mode: "quiz", Difficulty: "easy"})
	require.NoError(t, err)
	_, err = svc.Start("guest:active", StartInput{Game: catalog.Math, Mode: "quiz", Difficulty: "easy"})
	require.NoError(t, err)
	_, err = svc.Start("guest:watching", StartInput{Game: catalog.Math, Mode: "quiz", Difficulty: "easy"})
	require.NoError(t, err)
	unwatch := svc.Watch("guest:watching", func(game.Event) {})
	assert.Equal(t, 3, sched.Pending(), "one quiz ticker per session")

	svc.now = func() time.Time { return start.Add(20 * time.Minute) }
	_, err = svc.Get("guest:active")
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(40 * time.Minute) }
	assert.Equal(t, 1, svc.EvictIdle(30*time.Minute))
	assert.Equal(t, 2, svc.Count())
	assert.True(t, abandoned.Closed())
	assert.Equal(t, 2, sched.Pending(), "the evicted ticker is cancelled")

	sched.Advance(3 * time.Second)
	assert.Zero(t, abandoned.Snapshot().ElapsedSeconds)

	_, err = svc.Get("guest:gone")
	assert.ErrorIs(t, err, ErrNoActiveSession)

	// once the stream closes the idle session goes too
	unwatch()
	svc.now = func() time.Time { return start.Add(2 * time.Hour) }
	assert.Equal(t, 2, svc.EvictIdle(30*time.Minute))
	assert.Zero(t, svc.Count())
	assert.Zero(t, sched.Pending())
}
