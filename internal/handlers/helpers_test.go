package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/clubhub/clubhub-api/internal/constants"
	"github.com/clubhub/clubhub-api/internal/database"
	"github.com/clubhub/clubhub-api/internal/middleware"
	"github.com/clubhub/clubhub-api/internal/models"
	"github.com/clubhub/clubhub-api/internal/repository"
	"github.com/clubhub/clubhub-api/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type handlerTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	auth        *services.AuthService
	memberships *services.MembershipService
	clubs       *services.ClubService
}

// setupHandlerTestEnv wires the full router against an in-memory database,
// with a cookie session store standing in for Redis.
func setupHandlerTestEnv(t *testing.T) *handlerTestEnv {
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

	audit := services.NewAuditService(activityRepo)
	notifier := services.NewNotificationService(noteRepo)
	authService := services.NewAuthService(userRepo, notifier, audit)
	sessionService := services.NewSessionService(sessionRepo)
	rateLimitService := services.NewRateLimitService(rateLimitRepo)
	permissionService := services.NewPermissionService(memberRepo, roleRepo, audit)
	roleService := services.NewRoleService(roleRepo, memberRepo, permissionService, audit)
	clubService := services.NewClubService(clubRepo, memberRepo, permissionService, audit)
	membershipService := services.NewMembershipService(clubRepo, memberRepo, joinRepo, roleRepo, permissionService, notifier, audit)

	requireAuth := middleware.RequireAuth(sessionService, authService)
	requireCsrf := middleware.RequireCsrf(sessionService)
	requireClub := middleware.RequireClubAccess(clubRepo, memberRepo)

	authHandler := NewAuthHandler(authService, sessionService, rateLimitService)
	clubHandler := NewClubHandler(clubService, membershipService, permissionService)
	roleHandler := NewRoleHandler(roleService, permissionService)
	memberHandler := NewMemberHandler(membershipService, roleService)
	joinHandler := NewJoinRequestHandler(membershipService)
	notificationHandler := NewNotificationHandler(notifier)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", requireAuth, requireCsrf, authHandler.Logout)
			auth.GET("/check", requireAuth, authHandler.Check)
			auth.POST("/change-password", requireAuth, requireCsrf, authHandler.ChangePassword)
		}

		clubs := api.Group("/clubs")
		clubs.Use(requireAuth)
		{
			clubs.POST("", requireCsrf, clubHandler.CreateClub)
			clubs.GET("", clubHandler.ListMyClubs)
			clubs.GET("/:id", requireClub, clubHandler.GetClub)
			clubs.PUT("/:id", requireCsrf, requireClub, clubHandler.UpdateClub)
			clubs.POST("/:id/regenerate-code", requireCsrf, requireClub, clubHandler.RegenerateAccessCode)

			clubs.GET("/:id/members", requireClub, memberHandler.ListMembers)
			clubs.DELETE("/:id/members/:userId", requireCsrf, requireClub, memberHandler.RemoveMember)
			clubs.PUT("/:id/members/:userId/role", requireCsrf, requireClub, memberHandler.AssignRole)

			clubs.GET("/:id/roles", requireClub, roleHandler.ListRoles)
			clubs.POST("/:id/roles", requireCsrf, requireClub, roleHandler.CreateRole)
			clubs.GET("/:id/roles/:roleId", requireClub, roleHandler.GetRole)
			clubs.DELETE("/:id/roles/:roleId", requireCsrf, requireClub, roleHandler.DeleteRole)
			clubs.PUT("/:id/roles/:roleId/permissions", requireCsrf, requireClub, roleHandler.SetPermission)

			clubs.GET("/:id/join-requests", requireClub, joinHandler.ListPending)
		}

		joinRequests := api.Group("/join-requests")
		joinRequests.Use(requireAuth)
		{
			joinRequests.POST("", requireCsrf, joinHandler.RequestJoin)
			joinRequests.POST("/:requestId/approve", requireCsrf, joinHandler.Approve)
			joinRequests.POST("/:requestId/reject", requireCsrf, joinHandler.Reject)
		}

		api.GET("/permissions", requireAuth, roleHandler.Catalogue)

		notifications := api.Group("/notifications")
		notifications.Use(requireAuth)
		{
			notifications.GET("", notificationHandler.ListUnread)
			notifications.POST("/:notificationId/read", requireCsrf, notificationHandler.MarkRead)
		}
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return &handlerTestEnv{
		db:          db,
		router:      r,
		auth:        authService,
		memberships: membershipService,
		clubs:       clubService,
	}
}

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	CSRFToken string          `json:"csrf_token"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// testClient carries session cookies and the CSRF token across requests.
type testClient struct {
	env     *handlerTestEnv
	cookies []*http.Cookie
	csrf    string
}

func (c *testClient) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.csrf != "" {
		req.Header.Set(constants.CSRFHeaderName, c.csrf)
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.env.router.ServeHTTP(w, req)

	// Pick up rotated cookies and refreshed CSRF tokens.
	if set := w.Result().Cookies(); len(set) > 0 {
		c.cookies = set
	}
	if resp := decodeAnyEnvelope(w); resp != nil && resp.CSRFToken != "" {
		c.csrf = resp.CSRFToken
	}
	return w
}

func decodeAnyEnvelope(w *httptest.ResponseRecorder) *envelope {
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		return nil
	}
	return &env
}

// signup registers and logs in a user, returning an authenticated client.
func signup(t *testing.T, env *handlerTestEnv, email string) *testClient {
	t.Helper()

	client := &testClient{env: env}
	w := client.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email":      email,
		"password":   "supersecret",
		"first_name": "Test",
		"last_name":  "User",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = client.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, client.csrf)

	return client
}
