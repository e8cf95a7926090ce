package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/ayatori/workspace-chat-api/internal/config"
	"github.com/ayatori/workspace-chat-api/internal/handlers"
	"github.com/ayatori/workspace-chat-api/internal/middleware"
	"github.com/ayatori/workspace-chat-api/internal/scheduler"
	"github.com/ayatori/workspace-chat-api/internal/services"
	"github.com/ayatori/workspace-chat-api/internal/snapshot"
	"github.com/ayatori/workspace-chat-api/internal/store"
	"github.com/ayatori/workspace-chat-api/pkg/auth"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	logger, err := newLogger(cfg.GinMode)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// State lives in memory; the snapshot database only exists to survive
	// restarts
	st := store.New()
	db, err := snapshot.Open(cfg.SnapshotDriver, cfg.SnapshotDSN)
	if err != nil {
		logger.Fatal("failed to open snapshot database", zap.Error(err))
	}
	if err := snapshot.Migrate(db); err != nil {
		logger.Fatal("failed to migrate snapshot database", zap.Error(err))
	}
	state, found, err := snapshot.Load(db)
	if err != nil {
		logger.Fatal("failed to load snapshot", zap.Error(err))
	}
	if found {
		st.Restore(state)
		logger.Info("workspace restored from snapshot",
			zap.Int("users", len(state.Users)),
			zap.Int("channels", len(state.Channels)),
			zap.Int("messages", len(state.Messages)),
		)
	}

	sched := scheduler.New(logger)
	defer sched.Stop()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	mailer := services.NewLogMailer(logger)

	authService := services.NewAuthService(st, jwtManager, mailer)
	userService := services.NewUserService(st)
	channelService := services.NewChannelService(st, st)
	messageService := services.NewMessageService(st, sched, logger)
	standupService := services.NewStandupService(st, sched, logger)
	workspaceService := services.NewWorkspaceService(st, logger)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	channelHandler := handlers.NewChannelHandler(channelService)
	messageHandler := handlers.NewMessageHandler(messageService)
	standupHandler := handlers.NewStandupHandler(standupService)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Workspace Chat API is running",
		})
	})

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", middleware.RequireAuth(authService), authHandler.Logout)
			authRoutes.GET("/me", middleware.RequireAuth(authService), authHandler.GetCurrentUser)
			authRoutes.POST("/passwordreset/request", authHandler.PasswordResetRequest)
			authRoutes.POST("/passwordreset/reset", authHandler.PasswordResetReset)
		}

		users := api.Group("/users")
		users.Use(middleware.RequireAuth(authService))
		{
			users.GET("/profile", userHandler.Profile)
			users.GET("/all", userHandler.All)
			users.PUT("/profile/setname", userHandler.SetName)
			users.PUT("/profile/setemail", userHandler.SetEmail)
			users.PUT("/profile/sethandle", userHandler.SetHandle)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(authService))
		{
			admin.POST("/userpermission/change", userHandler.ChangePermission)
			admin.DELETE("/user/remove", userHandler.Remove)
		}

		channels := api.Group("/channels")
		channels.Use(middleware.RequireAuth(authService))
		{
			channels.POST("", channelHandler.Create)
			channels.GET("/list", channelHandler.List)
			channels.GET("/listall", channelHandler.ListAll)
			channels.GET("/details", channelHandler.Details)
			channels.GET("/messages", messageHandler.Page)
			channels.POST("/join", channelHandler.Join)
			channels.POST("/invite", channelHandler.Invite)
			channels.POST("/leave", channelHandler.Leave)
			channels.POST("/addowner", channelHandler.AddOwner)
			channels.POST("/removeowner", channelHandler.RemoveOwner)
		}

		messages := api.Group("/messages")
		messages.Use(middleware.RequireAuth(authService))
		{
			messages.POST("/send", messageHandler.Send)
			messages.POST("/sendlater", messageHandler.SendLater)
			messages.PUT("/edit", messageHandler.Edit)
			messages.DELETE("/remove", messageHandler.Remove)
			messages.POST("/pin", messageHandler.Pin)
			messages.POST("/unpin", messageHandler.Unpin)
			messages.POST("/react", messageHandler.React)
			messages.POST("/unreact", messageHandler.Unreact)
		}

		api.GET("/search", middleware.RequireAuth(authService), messageHandler.Search)

		standup := api.Group("/standup")
		standup.Use(middleware.RequireAuth(authService))
		{
			standup.POST("/start", standupHandler.Start)
			standup.GET("/active", standupHandler.Active)
			standup.POST("/send", standupHandler.Send)
		}

		// Reset is unauthenticated: it exists for test harnesses and wipes
		// the sessions it would otherwise authenticate against
		api.POST("/workspace/reset", workspaceHandler.Reset)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := snapshot.NewRunner(db, st, cfg.SaveInterval, logger)
	runnerDone := make(chan struct{})
	go func() {
		defer close(runnerDone)
		runner.Run(ctx)
	}()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
	// Wait for the final snapshot before exiting
	<-runnerDone
}

func newLogger(mode string) (*zap.Logger, error) {
	if mode == "release" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
