// Package viewstate keeps the query each UI session is looking at, so the
// sort toggle and the last search survive between requests. The engine
// itself stays stateless; this is state owned by the presentation layer.
package viewstate

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/gnemet/dashgrid"
	"github.com/google/uuid"
)

// ErrUnknownSession is returned for ids the store does not hold
var ErrUnknownSession = errors.New("unknown session")

// Session holds one caller's current query
type Session struct {
	ID        string
	Widget    string
	Query     dashgrid.Query
	CreatedAt time.Time
	LastUsed  time.Time
	sync.Mutex
}

// Store manages view sessions with idle and absolute expiry
type Store struct {
	sessions    map[string]*Session
	mu          sync.Mutex
	idleTimeout time.Duration
	absTimeout  time.Duration
	maxSessions int
	cleanupStop chan struct{}
	stopOnce    sync.Once
	log         *slog.Logger
	now         func() time.Time
}

// Options tunes a Store. Zero timeouts never expire; zero MaxSessions is
// unlimited.
type Options struct {
	MaxSessions     int
	IdleTimeout     time.Duration
	AbsTimeout      time.Duration
	CleanupInterval time.Duration
	Logger          *slog.Logger
}

// NewStore creates a Store and starts its cleanup routine
func NewStore(opts Options) *Store {
	s := &Store{
		sessions:    make(map[string]*Session),
		idleTimeout: opts.IdleTimeout,
		absTimeout:  opts.AbsTimeout,
		maxSessions: opts.MaxSessions,
		cleanupStop: make(chan struct{}),
		log:         opts.Logger,
		now:         time.Now,
	}
	if s.log == nil {
		s.log = slog.Default()
	}

	interval := opts.CleanupInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	s.startCleanupRoutine(interval)
	return s
}

// Close stops the cleanup routine
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.cleanupStop) })
}

func (s *Store) startCleanupRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				s.cleanupTimeouts()
			case <-s.cleanupStop:
				ticker.Stop()
				return
			}
		}
	}()
}

func (s *Store) cleanupTimeouts() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for sid, sess := range s.sessions {
		sess.Lock()
		if s.expired(sess, now) {
			s.log.Info("Dropping expired view session", "session", sid, "widget", sess.Widget)
			delete(s.sessions, sid)
		}
		sess.Unlock()
	}
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	if s.absTimeout > 0 && now.Sub(sess.CreatedAt) > s.absTimeout {
		return true
	}
	return s.idleTimeout > 0 && now.Sub(sess.LastUsed) > s.idleTimeout
}

// Create registers a new session for widget seeded with q
func (s *Store) Create(widget string, q dashgrid.Query) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(uuid.NewString(), widget, q)
}

func (s *Store) createLocked(sid, widget string, q dashgrid.Query) (*Session, error) {
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		return nil, fmt.Errorf("view session capacity reached (max %d)", s.maxSessions)
	}
	now := s.now()
	sess := &Session{
		ID:        sid,
		Widget:    widget,
		Query:     cloneQuery(q),
		CreatedAt: now,
		LastUsed:  now,
	}
	s.sessions[sid] = sess
	return sess, nil
}

// Get returns the stored query and touches the session
func (s *Store) Get(sid string) (dashgrid.Query, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[sid]
	s.mu.Unlock()
	if !ok {
		return dashgrid.Query{}, false
	}

	sess.Lock()
	defer sess.Unlock()
	sess.LastUsed = s.now()
	return cloneQuery(sess.Query), true
}

// Put stores q for sid, creating the session if needed
func (s *Store) Put(sid, widget string, q dashgrid.Query) error {
	s.mu.Lock()
	sess, ok := s.sessions[sid]
	if !ok {
		_, err := s.createLocked(sid, widget, q)
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	sess.Lock()
	defer sess.Unlock()
	sess.Query = cloneQuery(q)
	sess.LastUsed = s.now()
	return nil
}

// ToggleSort advances the sort on key through asc, desc and none. Switching
// to another column starts again at ascending.
func (s *Store) ToggleSort(sid, key string) (dashgrid.Query, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sid]
	s.mu.Unlock()
	if !ok {
		return dashgrid.Query{}, fmt.Errorf("%w: %s", ErrUnknownSession, sid)
	}

	sess.Lock()
	defer sess.Unlock()
	sess.LastUsed = s.now()

	dir := dashgrid.SortAsc
	if cur := sess.Query.Sort; cur != nil && cur.Key == key {
		dir = cur.Direction.Next()
	}
	sess.Query.Sort = &dashgrid.SortSpec{Key: key, Direction: dir}
	return cloneQuery(sess.Query), nil
}

// cloneQuery copies the filter map and the sort and page specs so callers
// never share them with a stored session.
func cloneQuery(q dashgrid.Query) dashgrid.Query {
	q.Filters = maps.Clone(q.Filters)
	if q.Sort != nil {
		sort := *q.Sort
		q.Sort = &sort
	}
	if q.Page != nil {
		page := *q.Page
		q.Page = &page
	}
	return q
}

// Len reports the number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
