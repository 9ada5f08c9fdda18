package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/clubhub/clubhub-api/internal/database"
	"github.com/clubhub/clubhub-api/internal/models"
	"github.com/clubhub/clubhub-api/internal/repository"
)

type testEnv struct {
	db          *gorm.DB
	auth        *AuthService
	sessions    *SessionService
	rateLimiter *RateLimitService
	perms       *PermissionService
	roles       *RoleService
	clubs       *ClubService
	memberships *MembershipService
	notifier    *NotificationService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Club{},
		&models.Role{},
		&models.RolePermission{},
		&models.Membership{},
		&models.JoinRequest{},
		&models.Session{},
		&models.RateLimitCounter{},
		&models.Notification{},
		&models.ActivityLog{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	clubRepo := repository.NewClubRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	memberRepo := repository.NewMembershipRepository(db)
	joinRepo := repository.NewJoinRequestRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	rateLimitRepo := repository.NewRateLimitRepository(db)
	noteRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	audit := NewAuditService(activityRepo)
	notifier := NewNotificationService(noteRepo)
	auth := NewAuthService(userRepo, notifier, audit)
	sessions := NewSessionService(sessionRepo)
	rateLimiter := NewRateLimitService(rateLimitRepo)
	perms := NewPermissionService(memberRepo, roleRepo, audit)
	roles := NewRoleService(roleRepo, memberRepo, perms, audit)
	clubs := NewClubService(clubRepo, memberRepo, perms, audit)
	memberships := NewMembershipService(clubRepo, memberRepo, joinRepo, roleRepo, perms, notifier, audit)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return &testEnv{
		db:          db,
		auth:        auth,
		sessions:    sessions,
		rateLimiter: rateLimiter,
		perms:       perms,
		roles:       roles,
		clubs:       clubs,
		memberships: memberships,
		notifier:    notifier,
	}
}

func createTestUser(t *testing.T, env *testEnv, email string) *models.User {
	t.Helper()

	user, err := env.auth.Register(RegisterInput{
		Email:     email,
		Password:  "supersecret",
		FirstName: "Test",
		LastName:  "User",
	})
	require.NoError(t, err)
	return user
}

func createTestClub(t *testing.T, env *testEnv, ownerID uint64, name string) *models.Club {
	t.Helper()

	club, err := env.clubs.CreateClub(ownerID, name, "a test club")
	require.NoError(t, err)
	return club
}

// defaultRole fetches the auto-created "Member" role of a club.
func defaultRole(t *testing.T, env *testEnv, clubID uint64) *models.Role {
	t.Helper()

	var role models.Role
	err := env.db.Where("club_id = ? AND kind = ?", clubID, models.RoleKindCustom).
		Where("name = ?", "Member").First(&role).Error
	require.NoError(t, err)
	return &role
}

// joinClub walks a user through the join flow into the club's default role.
func joinClub(t *testing.T, env *testEnv, ownerID, userID uint64, club *models.Club) {
	t.Helper()

	req, err := env.memberships.RequestJoin(userID, club.AccessCode, "let me in")
	require.NoError(t, err)

	role := defaultRole(t, env, club.ID)
	require.NoError(t, env.memberships.ApproveJoinRequest(ownerID, req.ID, role.ID))
}
