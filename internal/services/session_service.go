package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	mathrand "math/rand"
	"time"

	"github.com/clubhub/clubhub-api/internal/constants"
	"github.com/clubhub/clubhub-api/internal/logger"
	"github.com/clubhub/clubhub-api/internal/models"
	"github.com/clubhub/clubhub-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalidCSRF     = errors.New("invalid CSRF token")
)

// purgeDenominator: one in this many validations triggers an opportunistic
// purge of expired sessions. Correctness never depends on purge timing;
// Validate re-checks the lifetime at read time regardless.
const purgeDenominator = 100

// ClientContext is the client-side binding snapshotted into the session.
type ClientContext struct {
	IPAddress string
	UserAgent string
}

// SessionService issues, validates, rotates, and destroys sessions, and owns
// the per-session CSRF token.
type SessionService struct {
	sessionRepo repository.SessionRepository
	lifetime    time.Duration
	rotateAfter time.Duration
}

// NewSessionService creates a new SessionService with the default lifetimes.
func NewSessionService(sessionRepo repository.SessionRepository) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		lifetime:    constants.SessionLifetime,
		rotateAfter: constants.SessionRotateAfter,
	}
}

// Create binds a session identifier to the user. An existing identifier is
// reused (upsert semantics: re-authentication from the same client keeps one
// row per session id); an empty one gets a fresh identifier.
func (s *SessionService) Create(userID uint64, sessionID string, clientCtx ClientContext) (*models.Session, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	now := time.Now()
	session := &models.Session{
		ID:           sessionID,
		UserID:       userID,
		IPAddress:    clientCtx.IPAddress,
		UserAgent:    clientCtx.UserAgent,
		CreatedAt:    now,
		LastActivity: now,
	}
	if err := s.sessionRepo.Upsert(session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return session, nil
}

// Validate resolves a session id to a live session. Sessions idle beyond the
// lifetime are invalid regardless of whether the purge already ran. A side
// effect of successful validation is refreshing last-activity.
func (s *SessionService) Validate(sessionID string) (*models.Session, error) {
	if sessionID == "" {
		return nil, ErrUnauthenticated
	}

	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	now := time.Now()
	if now.Sub(session.LastActivity) > s.lifetime {
		if err := s.sessionRepo.Delete(sessionID); err != nil {
			logger.Warn("failed to drop expired session", "error", err)
		}
		return nil, ErrUnauthenticated
	}

	if err := s.sessionRepo.TouchActivity(sessionID, now); err != nil {
		return nil, fmt.Errorf("failed to refresh session activity: %w", err)
	}
	session.LastActivity = now

	if mathrand.Intn(purgeDenominator) == 0 {
		if err := s.sessionRepo.DeleteExpired(now.Add(-s.lifetime)); err != nil {
			logger.Warn("opportunistic session purge failed", "error", err)
		}
	}

	return session, nil
}

// MaybeRotate replaces the session identifier once the session is older than
// the rotation interval, limiting fixation risk. The old identifier stays
// valid until the replacement commits. Returns the session to use and
// whether rotation happened.
func (s *SessionService) MaybeRotate(session *models.Session) (*models.Session, bool, error) {
	if time.Since(session.CreatedAt) < s.rotateAfter {
		return session, false, nil
	}

	rotated := &models.Session{
		ID:           uuid.NewString(),
		UserID:       session.UserID,
		IPAddress:    session.IPAddress,
		UserAgent:    session.UserAgent,
		CSRFToken:    session.CSRFToken,
		CreatedAt:    time.Now(),
		LastActivity: session.LastActivity,
	}
	if err := s.sessionRepo.Replace(session.ID, rotated); err != nil {
		return nil, false, fmt.Errorf("failed to rotate session: %w", err)
	}
	return rotated, true, nil
}

// Destroy removes the session; destroying an absent session is not an error.
func (s *SessionService) Destroy(sessionID string) error {
	if err := s.sessionRepo.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// EnsureCSRFToken lazily generates the session's CSRF token. One token per
// session lifetime: once set it is stable.
func (s *SessionService) EnsureCSRFToken(session *models.Session) (string, error) {
	if session.CSRFToken != "" {
		return session.CSRFToken, nil
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate CSRF token: %w", err)
	}
	token := hex.EncodeToString(raw)

	if err := s.sessionRepo.SetCSRFToken(session.ID, token); err != nil {
		return "", fmt.Errorf("failed to store CSRF token: %w", err)
	}
	session.CSRFToken = token
	return token, nil
}

// VerifyCSRFToken compares the supplied token against the session's token in
// constant time. Absence on either side is a mismatch.
func (s *SessionService) VerifyCSRFToken(session *models.Session, token string) error {
	if session.CSRFToken == "" || token == "" {
		return ErrInvalidCSRF
	}
	if subtle.ConstantTimeCompare([]byte(session.CSRFToken), []byte(token)) != 1 {
		return ErrInvalidCSRF
	}
	return nil
}
