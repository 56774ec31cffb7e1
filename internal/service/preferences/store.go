package preferences

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"FinAssist/internal/domain/models"
	"FinAssist/pkg/cache"
	applogger "FinAssist/pkg/logger"
	"FinAssist/pkg/util"
)

const (
	KeyPrefix  = "agent:user-preferences:"
	DefaultTTL = 365 * 24 * time.Hour
)

var validate = validator.New()

type Option func(*Store)

func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithLogger(l *applogger.Logger) Option {
	return func(s *Store) { s.logger = applogger.OrNop(l) }
}

// Store persists one UserPreferences record per user in the shared cache.
type Store struct {
	cache  cache.Store
	ttl    time.Duration
	logger *applogger.Logger
}

func NewStore(c cache.Store, opts ...Option) *Store {
	s := &Store{cache: c, ttl: DefaultTTL, logger: applogger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func key(userID string) string {
	return KeyPrefix + userID
}

// GetUserPreferences returns the stored record for userID. Misses, undecodable
// payloads and records failing validation all yield the empty record.
func (s *Store) GetUserPreferences(ctx context.Context, userID string) models.UserPreferences {
	if s == nil || s.cache == nil || userID == "" {
		return models.UserPreferences{}
	}

	prefs, ok := cache.GetJSON[models.UserPreferences](ctx, s.cache, key(userID))
	if !ok {
		return models.UserPreferences{}
	}
	if err := checkPreferences(prefs); err != nil {
		s.logger.Debug("Discarding invalid stored preferences",
			applogger.String("user_id", userID),
			applogger.Error(err),
		)
		return models.UserPreferences{}
	}
	return prefs
}

// SaveUserPreferences writes prefs for userID. An empty record is stored as {}.
func (s *Store) SaveUserPreferences(ctx context.Context, userID string, prefs models.UserPreferences) error {
	if userID == "" {
		return fmt.Errorf("save preferences: empty user id")
	}
	if err := checkPreferences(prefs); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	if err := cache.SetJSON(ctx, s.cache, key(userID), prefs, s.ttl); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

func checkPreferences(p models.UserPreferences) error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	if p.UpdatedAt != "" {
		if _, ok := util.ParseTime(p.UpdatedAt); !ok {
			return fmt.Errorf("invalid updatedAt %q", p.UpdatedAt)
		}
	}
	return nil
}
