package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/clubhub/clubhub-api/internal/constants"
	"github.com/clubhub/clubhub-api/internal/logger"
	"github.com/clubhub/clubhub-api/internal/models"
	"github.com/clubhub/clubhub-api/internal/repository"
	"gorm.io/gorm"
)

var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimitService throttles security-sensitive actions per identity within
// a rolling window. The contract is fail-open on infrastructure error and
// fail-closed only on genuine limit exhaustion: broken bookkeeping must
// never block a login.
type RateLimitService struct {
	counterRepo repository.RateLimitRepository
}

// NewRateLimitService creates a new RateLimitService.
func NewRateLimitService(counterRepo repository.RateLimitRepository) *RateLimitService {
	return &RateLimitService{counterRepo: counterRepo}
}

// UserIdentity keys the counter by user id.
func UserIdentity(userID uint64) string {
	return fmt.Sprintf("u:%d", userID)
}

// IPIdentity keys the counter by client address.
func IPIdentity(ip string) string {
	return "ip:" + ip
}

// CheckAndConsume records one attempt of actionType by identity. It returns
// ErrRateLimited once maxAttempts is reached within the window; the counter
// is left unchanged in that case.
func (s *RateLimitService) CheckAndConsume(actionType, identity string, maxAttempts int, window time.Duration) error {
	now := time.Now()

	if err := s.counterRepo.PurgeExpired(actionType, now.Add(-window)); err != nil {
		logger.Warn("rate limit purge failed", "action", actionType, "error", err)
	}

	counter, err := s.counterRepo.Find(actionType, identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fresh := &models.RateLimitCounter{
				ActionType:   actionType,
				Identity:     identity,
				AttemptCount: 1,
				WindowStart:  now,
				LastAttempt:  now,
			}
			if err := s.counterRepo.Insert(fresh); err != nil {
				logger.Warn("rate limit insert failed", "action", actionType, "error", err)
			}
			return nil
		}
		logger.Warn("rate limit lookup failed", "action", actionType, "error", err)
		return nil
	}

	if now.Sub(counter.WindowStart) > window {
		if err := s.counterRepo.Reset(actionType, identity, now); err != nil {
			logger.Warn("rate limit reset failed", "action", actionType, "error", err)
		}
		return nil
	}

	if counter.AttemptCount >= maxAttempts {
		return ErrRateLimited
	}

	if err := s.counterRepo.Increment(actionType, identity, now); err != nil {
		logger.Warn("rate limit increment failed", "action", actionType, "error", err)
	}
	return nil
}

// AllowLogin consumes one login attempt for the identity.
func (s *RateLimitService) AllowLogin(identity string) error {
	return s.CheckAndConsume(constants.ActionLogin, identity, constants.MaxLoginAttempts, constants.RateLimitWindow)
}

// AllowRegister consumes one registration attempt for the identity.
func (s *RateLimitService) AllowRegister(identity string) error {
	return s.CheckAndConsume(constants.ActionRegister, identity, constants.MaxRegisterAttempts, constants.RateLimitWindow)
}
