package service

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"mindbridge/internal/catalog"
	"mindbridge/internal/game"
	"mindbridge/internal/models"
)

// ErrNoActiveSession is returned when the owner has no live game session
var ErrNoActiveSession = errors.New("no active game session")

// StartInput selects the game to play
type StartInput struct {
	Game        catalog.GameType
	Mode        string
	Difficulty  string
	Participant models.Participant
}

// liveSession is a registered session and the last time its owner used it
type liveSession struct {
	sess       *game.Session
	lastActive atomic.Int64 // unix nanoseconds
}

func (l *liveSession) touch(now time.Time) {
	l.lastActive.Store(now.UnixNano())
}

type watcher struct {
	listener game.Listener
	unsub    func()
}

// GameService owns the live session of every participant. Owners are
// user IDs for signed-in players and a guest cookie value otherwise.
type GameService struct {
	mu          sync.RWMutex
	sessions    map[string]*liveSession
	watchers    map[string]map[int]*watcher
	nextWatcher int

	reporter     *game.Reporter
	newScheduler func() game.Scheduler
	now          func() time.Time
	debug        bool
}

// NewGameService creates a registry that reports results through reporter
func NewGameService(reporter *game.Reporter, debug bool) *GameService {
	return &GameService{
		sessions:     make(map[string]*liveSession),
		watchers:     make(map[string]map[int]*watcher),
		reporter:     reporter,
		newScheduler: game.NewScheduler,
		now:          time.Now,
		debug:        debug,
	}
}

// WithScheduler replaces the scheduler factory used for new sessions
func (s *GameService) WithScheduler(f func() game.Scheduler) *GameService {
	s.newScheduler = f
	return s
}

// Start begins a new session for owner, closing any session it replaces.
// Watchers of the owner move to the new session.
func (s *GameService) Start(owner string, in StartInput) (*game.Session, error) {
	g, err := catalog.Lookup(in.Game)
	if err != nil {
		return nil, err
	}
	mode, err := game.ParseMode(in.Mode)
	if err != nil {
		return nil, err
	}
	difficulty, err := catalog.ParseDifficulty(in.Difficulty)
	if err != nil {
		return nil, err
	}

	cfg := game.Config{
		Game:        g,
		Mode:        mode,
		Difficulty:  difficulty,
		Participant: in.Participant,
		Scheduler:   s.newScheduler(),
		Reporter:    s.reporter,
	}
	if s.debug {
		cfg.MasteryHook = func(promptID string, mastery int) {
			log.Printf("[DEBUG] Mastery owner=%s prompt=%s level=%d", owner, promptID, mastery)
		}
	}

	sess, err := game.NewSession(cfg)
	if err != nil {
		return nil, err
	}

	live := &liveSession{sess: sess}
	live.touch(s.now())

	s.mu.Lock()
	old := s.sessions[owner]
	s.sessions[owner] = live
	var listeners []game.Listener
	for _, w := range s.watchers[owner] {
		w.unsub = sess.Subscribe(w.listener)
		listeners = append(listeners, w.listener)
	}
	s.mu.Unlock()

	if old != nil {
		old.sess.Close()
	}

	log.Printf("Started %s %s session %s for %s (%s)", mode, g.Type, sess.ID(), in.Participant.Email, difficulty)

	ev := game.Event{Type: game.EventState, State: sess.Snapshot()}
	for _, l := range listeners {
		l(ev)
	}
	return sess, nil
}

// Get returns the owner's live session and marks it as in use
func (s *GameService) Get(owner string) (*game.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	live, ok := s.sessions[owner]
	if !ok {
		return nil, ErrNoActiveSession
	}
	live.touch(s.now())
	return live.sess, nil
}

// End closes and forgets the owner's session
func (s *GameService) End(owner string) error {
	s.mu.Lock()
	live, ok := s.sessions[owner]
	delete(s.sessions, owner)
	s.mu.Unlock()

	if !ok {
		return ErrNoActiveSession
	}
	live.sess.Close()
	return nil
}

// EvictIdle closes sessions nobody has used for ttl, including finished
// quizzes left open, and returns how many were removed. Owners with an
// open event stream are still present and keep their session.
func (s *GameService) EvictIdle(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl).UnixNano()

	s.mu.Lock()
	var idle []*game.Session
	for owner, live := range s.sessions {
		if len(s.watchers[owner]) > 0 || live.lastActive.Load() > cutoff {
			continue
		}
		idle = append(idle, live.sess)
		delete(s.sessions, owner)
	}
	s.mu.Unlock()

	for _, sess := range idle {
		sess.Close()
	}
	return len(idle)
}

// Watch registers l for events of the owner's current and future
// sessions. The returned function removes it.
func (s *GameService) Watch(owner string, l game.Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := &watcher{listener: l}
	if live, ok := s.sessions[owner]; ok {
		w.unsub = live.sess.Subscribe(l)
	}
	if s.watchers[owner] == nil {
		s.watchers[owner] = make(map[int]*watcher)
	}
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[owner][id] = w

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if w.unsub != nil {
			w.unsub()
		}
		delete(s.watchers[owner], id)
		if len(s.watchers[owner]) == 0 {
			delete(s.watchers, owner)
		}
	}
}

// Count returns the number of live sessions
func (s *GameService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Shutdown closes every session and waits for pending result writes
func (s *GameService) Shutdown() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*liveSession)
	s.mu.Unlock()

	for _, live := range sessions {
		live.sess.Close()
	}
	s.reporter.Close()
	log.Printf("Closed %d game sessions", len(sessions))
}
