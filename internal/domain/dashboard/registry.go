package dashboard

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/weather-dashboard/internal/domain/preferences"
	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
	"github.com/yanqian/weather-dashboard/pkg/util"
)

// Session is a dashboard plus the renderers attached to it.
type Session struct {
	ID          string
	Profile     string
	Dashboard   *Dashboard
	Recorder    *ViewRecorder
	Broadcaster *Broadcaster
	CreatedAt   time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen is the last time the session was accessed.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// RegistryConfig tunes session lifetime.
type RegistryConfig struct {
	SessionTTL time.Duration
}

type sharedStore struct {
	store *preferences.Store
	refs  int
}

// Registry creates, finds and evicts dashboard sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	stores   map[string]*sharedStore
	api      WeatherAPI
	backend  preferences.Backend
	ttl      time.Duration
	now      func() time.Time
	base     *slog.Logger
	logger   *slog.Logger
}

// NewRegistry builds an empty registry. Preferences of every session go through backend.
func NewRegistry(cfg RegistryConfig, api WeatherAPI, backend preferences.Backend, logger *slog.Logger) *Registry {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Registry{
		sessions: make(map[string]*Session),
		stores:   make(map[string]*sharedStore),
		api:      api,
		backend:  backend,
		ttl:      ttl,
		now:      util.NowUTC,
		base:     logger,
		logger:   logger.With("component", "dashboard.registry"),
	}
}

// Create opens a session. Preferences are stored under profile, or under the session id
// when profile is blank.
func (r *Registry) Create(ctx context.Context, profile string) (*Session, error) {
	id := uuid.NewString()
	profile = strings.TrimSpace(profile)
	if profile == "" {
		profile = id
	}

	recorder := NewViewRecorder()
	broadcaster := NewBroadcaster()
	store := r.acquireStore(profile)
	d, err := New(ctx, r.api, store, MultiRenderer{recorder, broadcaster}, r.base)
	if err != nil {
		r.mu.Lock()
		r.releaseLocked(profile)
		r.mu.Unlock()
		broadcaster.Close()
		return nil, err
	}

	now := r.now()
	session := &Session{
		ID:          id,
		Profile:     profile,
		Dashboard:   d,
		Recorder:    recorder,
		Broadcaster: broadcaster,
		CreatedAt:   now,
		lastSeen:    now,
	}
	r.mu.Lock()
	r.sessions[id] = session
	r.mu.Unlock()
	r.logger.Info("session created", "session", id, "profile", profile)
	return session, nil
}

// acquireStore returns the store every session on profile shares.
func (r *Registry) acquireStore(profile string) *preferences.Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	shared, ok := r.stores[profile]
	if !ok {
		shared = &sharedStore{store: preferences.NewStore(r.backend, profile, r.base)}
		r.stores[profile] = shared
	}
	shared.refs++
	return shared.store
}

// releaseLocked forgets the store of profile once its last session is gone.
func (r *Registry) releaseLocked(profile string) {
	shared, ok := r.stores[profile]
	if !ok {
		return
	}
	shared.refs--
	if shared.refs <= 0 {
		delete(r.stores, profile)
	}
}

// Get returns a live session and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, apperrors.Wrap(apperrors.CodeNotFound, "session not found", nil)
	}
	session.touch(r.now())
	return session, nil
}

// Delete closes a session.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	session, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
		r.releaseLocked(session.Profile)
	}
	r.mu.Unlock()
	if !ok {
		return apperrors.Wrap(apperrors.CodeNotFound, "session not found", nil)
	}
	session.Broadcaster.Close()
	r.logger.Info("session deleted", "session", id)
	return nil
}

// EvictIdle closes sessions idle longer than the TTL and returns how many were closed.
// Sessions with live event subscribers are kept.
func (r *Registry) EvictIdle() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var evicted []*Session
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) && s.Broadcaster.Subscribers() == 0 {
			delete(r.sessions, id)
			evicted = append(evicted, s)
		}
	}
	for _, s := range evicted {
		r.releaseLocked(s.Profile)
	}
	r.mu.Unlock()

	for _, s := range evicted {
		s.Broadcaster.Close()
	}
	if len(evicted) > 0 {
		r.logger.Info("idle sessions evicted", "count", len(evicted))
	}
	return len(evicted)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
