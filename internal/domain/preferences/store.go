// Package preferences persists presentation flags and favorite cities.
package preferences

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

// Backend is the key-value persistence contract. Set must replace the value in a single write.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store reads and writes the preferences of one profile. Sessions on the same profile
// share one Store so writes are serialized and every session sees the last values.
type Store struct {
	mu      sync.Mutex
	backend Backend
	profile string
	logger  *slog.Logger

	prefs     Preferences
	favorites []string
}

// NewStore binds a store to a profile namespace.
func NewStore(backend Backend, profile string, logger *slog.Logger) *Store {
	if strings.TrimSpace(profile) == "" {
		profile = "default"
	}
	return &Store{
		backend:   backend,
		profile:   profile,
		logger:    logger.With("component", "preferences.store", "profile", profile),
		prefs:     Defaults(),
		favorites: []string{},
	}
}

// Profile returns the namespace of the store.
func (s *Store) Profile() string {
	return s.profile
}

// Load returns the persisted preferences with defaults applied to missing fields.
func (s *Store) Load(ctx context.Context) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefs, err := s.loadLocked(ctx)
	if err != nil {
		return Preferences{}, err
	}
	s.prefs = prefs
	return prefs, nil
}

// Cached returns the values last read or written through this store without touching the backend.
func (s *Store) Cached() (Preferences, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs, append([]string(nil), s.favorites...)
}

// Save merges patch into the persisted record and writes it back.
func (s *Store) Save(ctx context.Context, patch Patch) (Preferences, error) {
	if err := patch.validate(); err != nil {
		return Preferences{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.loadLocked(ctx)
	if err != nil {
		return Preferences{}, err
	}
	next := patch.apply(current)
	if err := s.writeJSON(ctx, s.prefsKey(), next); err != nil {
		return Preferences{}, err
	}
	s.prefs = next
	return next, nil
}

// Favorites returns the favorite cities, most recent first.
func (s *Store) Favorites(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cities, err := s.favoritesLocked(ctx)
	if err != nil {
		return nil, err
	}
	s.favorites = cities
	return append([]string(nil), cities...), nil
}

// AddFavorite puts city at the front, dropping an existing copy and anything past capacity.
func (s *Store) AddFavorite(ctx context.Context, city string) ([]string, error) {
	if strings.TrimSpace(city) == "" {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "city name cannot be empty", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.favoritesLocked(ctx)
	if err != nil {
		return nil, err
	}
	next := make([]string, 0, FavoritesCapacity)
	next = append(next, city)
	for _, existing := range current {
		if existing == city {
			continue
		}
		if len(next) == FavoritesCapacity {
			break
		}
		next = append(next, existing)
	}
	if err := s.writeJSON(ctx, s.favoritesKey(), next); err != nil {
		return nil, err
	}
	s.favorites = next
	return append([]string(nil), next...), nil
}

// RemoveFavorite drops every entry equal to city. Matching is case-sensitive.
func (s *Store) RemoveFavorite(ctx context.Context, city string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.favoritesLocked(ctx)
	if err != nil {
		return nil, err
	}
	next := make([]string, 0, len(current))
	for _, existing := range current {
		if existing != city {
			next = append(next, existing)
		}
	}
	if len(next) == len(current) {
		s.favorites = next
		return append([]string(nil), next...), nil
	}
	if len(next) == 0 {
		if err := s.backend.Delete(ctx, s.favoritesKey()); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to delete record", err)
		}
	} else if err := s.writeJSON(ctx, s.favoritesKey(), next); err != nil {
		return nil, err
	}
	s.favorites = next
	return append([]string(nil), next...), nil
}

func (s *Store) loadLocked(ctx context.Context) (Preferences, error) {
	raw, ok, err := s.backend.Get(ctx, s.prefsKey())
	if err != nil {
		return Preferences{}, apperrors.Wrap(apperrors.CodeStorage, "failed to read preferences", err)
	}
	if !ok {
		return Defaults(), nil
	}
	var prefs Preferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		s.logger.Warn("corrupt preferences record, using defaults", "error", err)
		return Defaults(), nil
	}
	return prefs.withDefaults(), nil
}

func (s *Store) favoritesLocked(ctx context.Context) ([]string, error) {
	raw, ok, err := s.backend.Get(ctx, s.favoritesKey())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to read favorites", err)
	}
	if !ok {
		return []string{}, nil
	}
	var cities []string
	if err := json.Unmarshal([]byte(raw), &cities); err != nil {
		s.logger.Warn("corrupt favorites record, starting empty", "error", err)
		return []string{}, nil
	}
	if len(cities) > FavoritesCapacity {
		cities = cities[:FavoritesCapacity]
	}
	return cities, nil
}

func (s *Store) writeJSON(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to encode record", err)
	}
	if err := s.backend.Set(ctx, key, string(payload)); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to persist record", err)
	}
	return nil
}

func (s *Store) prefsKey() string {
	return s.profile + ":prefs"
}

func (s *Store) favoritesKey() string {
	return s.profile + ":favorites"
}
