package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clubhub/clubhub-api/internal/models"
)

func TestSessionService_CreateAndValidate(t *testing.T) {
	env := setupTestEnv(t)
	user := createTestUser(t, env, "alice@example.com")

	sess, err := env.sessions.Create(user.ID, "", ClientContext{
		IPAddress: "203.0.113.9",
		UserAgent: "test-agent",
	})
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	loaded, err := env.sessions.Validate(sess.ID)
	require.NoError(t, err)
	require.Equal(t, user.ID, loaded.UserID)
	require.Equal(t, "203.0.113.9", loaded.IPAddress)
}

func TestSessionService_Validate_Unknown(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.sessions.Validate("")
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = env.sessions.Validate("no-such-session")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSessionService_Validate_Expired(t *testing.T) {
	env := setupTestEnv(t)
	user := createTestUser(t, env, "alice@example.com")

	sess, err := env.sessions.Create(user.ID, "", ClientContext{})
	require.NoError(t, err)

	stale := time.Now().Add(-25 * time.Hour)
	require.NoError(t, env.db.Model(&models.Session{}).
		Where("id = ?", sess.ID).
		Update("last_activity", stale).Error)

	_, err = env.sessions.Validate(sess.ID)
	require.ErrorIs(t, err, ErrUnauthenticated)

	// The expired row is dropped, not merely rejected.
	var count int64
	require.NoError(t, env.db.Model(&models.Session{}).
		Where("id = ?", sess.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestSessionService_MaybeRotate_Fresh(t *testing.T) {
	env := setupTestEnv(t)
	user := createTestUser(t, env, "alice@example.com")

	sess, err := env.sessions.Create(user.ID, "", ClientContext{})
	require.NoError(t, err)

	same, rotated, err := env.sessions.MaybeRotate(sess)
	require.NoError(t, err)
	require.False(t, rotated)
	require.Equal(t, sess.ID, same.ID)
}

func TestSessionService_MaybeRotate_AfterInterval(t *testing.T) {
	env := setupTestEnv(t)
	user := createTestUser(t, env, "alice@example.com")

	sess, err := env.sessions.Create(user.ID, "", ClientContext{})
	require.NoError(t, err)

	token, err := env.sessions.EnsureCSRFToken(sess)
	require.NoError(t, err)

	sess.CreatedAt = time.Now().Add(-time.Hour)

	rotatedSess, rotated, err := env.sessions.MaybeRotate(sess)
	require.NoError(t, err)
	require.True(t, rotated)
	require.NotEqual(t, sess.ID, rotatedSess.ID)
	require.Equal(t, token, rotatedSess.CSRFToken)

	// The old identifier is gone, the new one resolves.
	_, err = env.sessions.Validate(sess.ID)
	require.ErrorIs(t, err, ErrUnauthenticated)
	_, err = env.sessions.Validate(rotatedSess.ID)
	require.NoError(t, err)
}

func TestSessionService_Destroy(t *testing.T) {
	env := setupTestEnv(t)
	user := createTestUser(t, env, "alice@example.com")

	sess, err := env.sessions.Create(user.ID, "", ClientContext{})
	require.NoError(t, err)

	require.NoError(t, env.sessions.Destroy(sess.ID))
	_, err = env.sessions.Validate(sess.ID)
	require.ErrorIs(t, err, ErrUnauthenticated)

	// Destroying an absent session is not an error.
	require.NoError(t, env.sessions.Destroy(sess.ID))
}

func TestSessionService_CSRFTokenLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	user := createTestUser(t, env, "alice@example.com")

	sess, err := env.sessions.Create(user.ID, "", ClientContext{})
	require.NoError(t, err)

	token, err := env.sessions.EnsureCSRFToken(sess)
	require.NoError(t, err)
	require.Len(t, token, 64)

	// Stable for the session's lifetime.
	again, err := env.sessions.EnsureCSRFToken(sess)
	require.NoError(t, err)
	require.Equal(t, token, again)

	require.NoError(t, env.sessions.VerifyCSRFToken(sess, token))
	require.ErrorIs(t, env.sessions.VerifyCSRFToken(sess, "forged"), ErrInvalidCSRF)
	require.ErrorIs(t, env.sessions.VerifyCSRFToken(sess, ""), ErrInvalidCSRF)

	bare := &models.Session{ID: "other"}
	require.ErrorIs(t, env.sessions.VerifyCSRFToken(bare, token), ErrInvalidCSRF)
}
