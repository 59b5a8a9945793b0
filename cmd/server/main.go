package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"campus-chat/internal/announcement"
	"campus-chat/internal/blob"
	"campus-chat/internal/chat"
	"campus-chat/internal/config"
	"campus-chat/internal/conversation"
	"campus-chat/internal/db"
	"campus-chat/internal/logging"
	myMiddleware "campus-chat/internal/middleware"
	"campus-chat/internal/responder"
	"campus-chat/internal/session"
	"campus-chat/internal/user"
)

func main() {
	// 1. Config & Flags
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	logging.Init(levelOr(cfg))
	log := logging.Logger()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Stores
	directory := user.NewDirectory()
	store := chat.NewStore(directory)
	board := announcement.NewBoard()
	files := blob.NewStore(cfg.PublicURL)
	if cfg.SeedDemo {
		directory.Seed(user.DemoUsers()...)
		for _, c := range chat.DemoChats() {
			store.Import(c)
		}
		for _, a := range announcement.Demo() {
			if _, err := board.Post(a); err != nil {
				log.Warn("seeding announcement", "error", err, "id", a.ID)
			}
		}
		log.Info("demo data seeded")
	}

	// 3. Responder
	var gen responder.Generator
	switch cfg.ResponderMode {
	case config.ResponderCanned:
		gen = responder.NewCanned()
	default:
		g, err := responder.NewGenAI(ctx, responder.GenAIConfig{
			APIKey:   cfg.GeminiAPIKey,
			Project:  cfg.GCPProject,
			Location: cfg.GCPLocation,
			Model:    cfg.GeminiModel,
		})
		if err != nil {
			log.Error("genai client", "error", err)
			os.Exit(1)
		}
		gen = g
	}
	gateway := responder.NewGateway(gen, directory, cfg.ResponderTimeout)

	// 4. Optional platform: Redis fan-out and Postgres archive
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Error("failed to connect to Redis", "error", err, "addr", cfg.RedisAddr)
			os.Exit(1)
		}
		defer redisClient.Close()
		log.Info("connected to Redis", "addr", cfg.RedisAddr)
	}

	hub := chat.NewHub(redisClient)
	go hub.Run(ctx)
	go hub.SubscribeToRedis(ctx)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []conversation.Option{
		conversation.WithNotifier(hub),
		conversation.WithMetrics(conversation.NewMetrics(reg)),
	}
	if cfg.DBDSN != "" {
		database, err := db.NewDatabase(ctx, cfg.DBDSN)
		if err != nil {
			log.Error("failed to connect to DB", "error", err)
			os.Exit(1)
		}
		defer database.Close()
		if err := database.AutoMigrate(ctx); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		archive := chat.NewArchive(database.Conn)
		for _, c := range store.ListAll() {
			if err := archive.SaveChat(ctx, c); err != nil {
				log.Warn("archiving seeded chat", "error", err, "chat_id", c.ID)
				continue
			}
			for _, m := range c.Messages {
				if err := archive.SaveMessage(ctx, c.ID, m); err != nil {
					log.Warn("archiving seeded message", "error", err, "message_id", m.ID)
				}
			}
		}
		opts = append(opts, conversation.WithArchive(archive))
		log.Info("message archive enabled")
	}

	orch := conversation.New(store, directory, gateway, opts...)

	// 5. Handlers
	users := user.NewService(directory)
	userHandler := user.NewHandler(users)
	sessions := session.NewService(directory, cfg.JWTSecret, cfg.TokenTTL)
	sessionHandler := session.NewHandler(sessions)
	chatHandler := conversation.NewHandler(orch, hub)
	announcementHandler := announcement.NewHandler(board, directory)
	fileHandler := blob.NewHandler(files)

	authMiddleware := myMiddleware.NewAuthMiddleware(sessions)
	sendLimiter := myMiddleware.NewRateLimiter(cfg.MessageRate, cfg.MessageBurst)

	// 6. Routes
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Public Routes
	r.Post("/register", userHandler.Register)
	r.Post("/login", sessionHandler.Login)
	r.Get("/api/categories", userHandler.Categories)
	r.Get("/files/{id}", fileHandler.Serve)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// Protected Routes (Require JWT)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Handle)

		r.Get("/api/me", userHandler.Me)
		r.Put("/api/me", userHandler.UpdateMe)
		r.Get("/api/users/search", userHandler.SearchUsers)
		r.Get("/api/lecturers", userHandler.Lecturers)

		r.Post("/api/files", fileHandler.Upload)

		r.Get("/api/announcements", announcementHandler.List)
		r.With(session.Require(session.PostAnnouncement)).Post("/api/announcements", announcementHandler.Post)

		chatHandler.Mount(r, sendLimiter)
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", "addr", cfg.Addr, "responder", cfg.ResponderMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ResponderTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", "error", err)
	}
	if err := orch.Shutdown(shutdownCtx); err != nil {
		log.Warn("reply cycles cut short", "error", err)
	}
}

func levelOr(cfg *config.Config) string {
	if cfg == nil {
		return "info"
	}
	return cfg.LogLevel
}
