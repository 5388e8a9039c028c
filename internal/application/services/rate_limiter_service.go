package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/glambooking/glambooking-api/configs"
	"github.com/glambooking/glambooking-api/internal/core/ports"
)

const rateLimitKeyPrefix = "ratelimit:public-booking"

// RateLimiterService applies one fixed-window policy to every subject.
type RateLimiterService struct {
	repo   ports.RateLimitRepository
	limit  int
	window time.Duration
	logger *logrus.Logger
}

func NewRateLimiterService(repo ports.RateLimitRepository, cfg *config.RateLimitConfig, logger *logrus.Logger) *RateLimiterService {
	limit := 10
	window := 10 * time.Minute
	if cfg != nil {
		if cfg.PublicBookingsPerWindow > 0 {
			limit = cfg.PublicBookingsPerWindow
		}
		if cfg.Window > 0 {
			window = cfg.Window
		}
	}
	return &RateLimiterService{repo: repo, limit: limit, window: window, logger: ensureLogger(logger)}
}

// Allow fails open: a counter store error lets the request through and is returned
// for logging only.
func (s *RateLimiterService) Allow(ctx context.Context, subject string) (bool, int, int, time.Time, error) {
	count, windowStart, err := s.repo.IncrementWindow(ctx, subject, s.window, rateLimitKeyPrefix, 2*s.window)
	reset := windowStart.Add(s.window)
	if err != nil {
		s.logger.WithField("subject", subject).WithError(err).Error("rate limiter: failed to increment window")
		return true, s.limit, s.limit, reset, err
	}
	if count > s.limit {
		s.logger.WithFields(logrus.Fields{"subject": subject, "count": count, "limit": s.limit}).Debug("rate limiter: rejected")
		return false, 0, s.limit, reset, nil
	}
	return true, s.limit - count, s.limit, reset, nil
}
