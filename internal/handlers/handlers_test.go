package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ayatori/workspace-chat-api/internal/middleware"
	"github.com/ayatori/workspace-chat-api/internal/scheduler"
	"github.com/ayatori/workspace-chat-api/internal/services"
	"github.com/ayatori/workspace-chat-api/internal/store"
	"github.com/ayatori/workspace-chat-api/pkg/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	router *gin.Engine
	st     *store.Store
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New()
	logger := zap.NewNop()
	sched := scheduler.New(logger)
	t.Cleanup(sched.Stop)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	mailer := services.NewLogMailer(logger)

	authService := services.NewAuthService(st, jwtManager, mailer)
	userService := services.NewUserService(st)
	channelService := services.NewChannelService(st, st)
	messageService := services.NewMessageService(st, sched, logger)
	standupService := services.NewStandupService(st, sched, logger)
	workspaceService := services.NewWorkspaceService(st, logger)

	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	channelHandler := NewChannelHandler(channelService)
	messageHandler := NewMessageHandler(messageService)
	standupHandler := NewStandupHandler(standupService)
	workspaceHandler := NewWorkspaceHandler(workspaceService)

	r := gin.New()
	api := r.Group("/api")
	requireAuth := middleware.RequireAuth(authService)

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", requireAuth, authHandler.Logout)
	api.GET("/auth/me", requireAuth, authHandler.GetCurrentUser)

	api.GET("/users/profile", requireAuth, userHandler.Profile)
	api.GET("/users/all", requireAuth, userHandler.All)
	api.PUT("/users/profile/sethandle", requireAuth, userHandler.SetHandle)

	api.POST("/channels", requireAuth, channelHandler.Create)
	api.GET("/channels/list", requireAuth, channelHandler.List)
	api.GET("/channels/details", requireAuth, channelHandler.Details)
	api.GET("/channels/messages", requireAuth, messageHandler.Page)
	api.POST("/channels/join", requireAuth, channelHandler.Join)

	api.POST("/messages/send", requireAuth, messageHandler.Send)
	api.PUT("/messages/edit", requireAuth, messageHandler.Edit)
	api.GET("/search", requireAuth, messageHandler.Search)

	api.POST("/standup/start", requireAuth, standupHandler.Start)
	api.GET("/standup/active", requireAuth, standupHandler.Active)

	api.POST("/workspace/reset", workspaceHandler.Reset)

	return testEnv{router: r, st: st}
}

func (e testEnv) do(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e testEnv) register(t *testing.T, email, nameFirst, nameLast string) (uint64, string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":      email,
		"password":   "hunter22",
		"name_first": nameFirst,
		"name_last":  nameLast,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		UserID uint64 `json:"u_id"`
		Token  string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.UserID, resp.Token
}

func TestRegisterAndMe(t *testing.T) {
	env := setupTestEnv(t)

	userID, token := env.register(t, "ada@example.com", "Ada", "Byron")
	require.Equal(t, uint64(1), userID)

	w := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		UserID uint64 `json:"u_id"`
		Handle string `json:"handle_str"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	require.Equal(t, userID, me.UserID)
	require.Equal(t, "adabyron", me.Handle)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "ada@example.com", "Ada", "Byron")

	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":      "ada@example.com",
		"password":   "hunter22",
		"name_first": "Ada",
		"name_last":  "Byron",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuth_MissingTokenRejected(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/channels/list", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/channels/list", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_TokenStopsWorking(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.register(t, "ada@example.com", "Ada", "Byron")

	w := env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChannelLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	_, ownerToken := env.register(t, "ada@example.com", "Ada", "Byron")
	memberID, memberToken := env.register(t, "bob@example.com", "Bob", "Baker")

	w := env.do(t, http.MethodPost, "/api/channels", ownerToken, map[string]any{
		"name":      "general",
		"is_public": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ChannelID uint64 `json:"channel_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Non-members cannot see details
	w = env.do(t, http.MethodGet, "/api/channels/details?channel_id=1", memberToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/channels/join", memberToken, map[string]any{
		"channel_id": created.ChannelID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/channels/details?channel_id=1", memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var details struct {
		Name       string `json:"name"`
		AllMembers []struct {
			UserID uint64 `json:"u_id"`
		} `json:"all_members"`
		OwnerMembers []struct {
			UserID uint64 `json:"u_id"`
		} `json:"owner_members"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &details))
	require.Equal(t, "general", details.Name)
	require.Len(t, details.AllMembers, 2)
	require.Len(t, details.OwnerMembers, 1)
	require.Equal(t, memberID, details.AllMembers[1].UserID)
}

func TestMessageSendAndPage(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.register(t, "ada@example.com", "Ada", "Byron")

	w := env.do(t, http.MethodPost, "/api/channels", token, map[string]any{
		"name":      "general",
		"is_public": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/messages/send", token, map[string]any{
		"channel_id": 1,
		"message":    "hello world",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var sent struct {
		MessageID uint64 `json:"message_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sent))
	require.Equal(t, uint64(1), sent.MessageID)

	w = env.do(t, http.MethodGet, "/api/channels/messages?channel_id=1&start=0", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Messages []struct {
			MessageID uint64 `json:"message_id"`
			Body      string `json:"message"`
		} `json:"messages"`
		Start int `json:"start"`
		End   int `json:"end"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Messages, 1)
	require.Equal(t, "hello world", page.Messages[0].Body)
	require.Equal(t, 0, page.Start)
	require.Equal(t, -1, page.End)
}

func TestMessageEdit_ForbiddenForOtherMembers(t *testing.T) {
	env := setupTestEnv(t)
	_, ownerToken := env.register(t, "ada@example.com", "Ada", "Byron")
	_, memberToken := env.register(t, "bob@example.com", "Bob", "Baker")
	_, thirdToken := env.register(t, "carol@example.com", "Carol", "Cook")

	env.do(t, http.MethodPost, "/api/channels", ownerToken, map[string]any{"name": "general", "is_public": true})
	env.do(t, http.MethodPost, "/api/channels/join", memberToken, map[string]any{"channel_id": 1})
	env.do(t, http.MethodPost, "/api/channels/join", thirdToken, map[string]any{"channel_id": 1})

	w := env.do(t, http.MethodPost, "/api/messages/send", memberToken, map[string]any{
		"channel_id": 1,
		"message":    "mine",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPut, "/api/messages/edit", thirdToken, map[string]any{
		"message_id": 1,
		"message":    "hijacked",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPut, "/api/messages/edit", memberToken, map[string]any{
		"message_id": 1,
		"message":    "fixed typo",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSearch(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.register(t, "ada@example.com", "Ada", "Byron")

	env.do(t, http.MethodPost, "/api/channels", token, map[string]any{"name": "general", "is_public": true})
	env.do(t, http.MethodPost, "/api/messages/send", token, map[string]any{"channel_id": 1, "message": "Needle here"})
	env.do(t, http.MethodPost, "/api/messages/send", token, map[string]any{"channel_id": 1, "message": "nothing"})

	w := env.do(t, http.MethodGet, "/api/search?query_str=needle", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Messages []struct {
			Body string `json:"message"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 1)
	require.Equal(t, "Needle here", resp.Messages[0].Body)
}

func TestStandupStart_ConflictWhenRunning(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.register(t, "ada@example.com", "Ada", "Byron")

	env.do(t, http.MethodPost, "/api/channels", token, map[string]any{"name": "general", "is_public": true})

	w := env.do(t, http.MethodPost, "/api/standup/start", token, map[string]any{"channel_id": 1, "length": 60})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/standup/start", token, map[string]any{"channel_id": 1, "length": 60})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestStandupActive_AnswersNonMembers(t *testing.T) {
	env := setupTestEnv(t)
	_, adaToken := env.register(t, "ada@example.com", "Ada", "Byron")
	_, bobToken := env.register(t, "bob@example.com", "Bob", "Baker")

	env.do(t, http.MethodPost, "/api/channels", adaToken, map[string]any{"name": "general", "is_public": true})

	w := env.do(t, http.MethodPost, "/api/standup/start", adaToken, map[string]any{"channel_id": 1, "length": 60})
	require.Equal(t, http.StatusCreated, w.Code)

	// Bob never joined; the status query answers him anyway
	w = env.do(t, http.MethodGet, "/api/standup/active?channel_id=1", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var status struct {
		IsActive   bool   `json:"is_active"`
		TimeFinish *int64 `json:"time_finish"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	require.True(t, status.IsActive)
	require.NotNil(t, status.TimeFinish)

	w = env.do(t, http.MethodGet, "/api/standup/active?channel_id=42", bobToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestStandupStart_ZeroLengthClosesImmediately(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.register(t, "ada@example.com", "Ada", "Byron")

	env.do(t, http.MethodPost, "/api/channels", token, map[string]any{"name": "general", "is_public": true})

	w := env.do(t, http.MethodPost, "/api/standup/start", token, map[string]any{"channel_id": 1, "length": 0})
	require.Equal(t, http.StatusCreated, w.Code)

	require.Eventually(t, func() bool {
		w := env.do(t, http.MethodGet, "/api/standup/active?channel_id=1", token, nil)
		var status struct {
			IsActive bool `json:"is_active"`
		}
		return w.Code == http.StatusOK &&
			json.Unmarshal(w.Body.Bytes(), &status) == nil &&
			!status.IsActive
	}, 3*time.Second, 20*time.Millisecond)

	w = env.do(t, http.MethodPost, "/api/standup/start", token, map[string]any{"channel_id": 1, "length": -5})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkspaceReset(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.register(t, "ada@example.com", "Ada", "Byron")

	w := env.do(t, http.MethodPost, "/api/workspace/reset", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Sessions are gone along with everything else
	w = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Ids restart from one and the first registrant owns the workspace again
	userID, _ := env.register(t, "new@example.com", "New", "User")
	require.Equal(t, uint64(1), userID)
}
