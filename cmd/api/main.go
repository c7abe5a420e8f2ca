package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/samber/do/v2"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fkhayef/clubhub/docs"
	"github.com/fkhayef/clubhub/internal/attendance"
	"github.com/fkhayef/clubhub/internal/attendee"
	"github.com/fkhayef/clubhub/internal/auth"
	"github.com/fkhayef/clubhub/internal/checkin"
	"github.com/fkhayef/clubhub/internal/config"
	"github.com/fkhayef/clubhub/internal/database"
	"github.com/fkhayef/clubhub/internal/feedback"
	"github.com/fkhayef/clubhub/internal/identity"
	"github.com/fkhayef/clubhub/internal/meeting"
	"github.com/fkhayef/clubhub/internal/member"
	"github.com/fkhayef/clubhub/internal/metrics"
	"github.com/fkhayef/clubhub/internal/post"
	"github.com/fkhayef/clubhub/internal/store/memory"
	"github.com/fkhayef/clubhub/internal/store/postgres"
	"github.com/fkhayef/clubhub/internal/timing"
	"github.com/fkhayef/clubhub/internal/vote"
	mw "github.com/fkhayef/clubhub/pkg/middleware"
)

const (
	shutdownTimeout    = 15 * time.Second
	databasePingPeriod = 30 * time.Second
)

// @title        ClubHub API
// @version      1.0
// @description  Meetings, checkins, feedback, timings and attendance for a speaking club.
// @BasePath     /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "store", cfg.StoreDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	injector, closeStore, err := setupDI(ctx, cfg)
	if err != nil {
		slog.Error("failed to build dependency graph", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(injector),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func initLogger(cfg *config.Config) {
	if cfg.IsDevelopment() {
		slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		})))
		return
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

func setupDI(ctx context.Context, cfg *config.Config) (do.Injector, func(), error) {
	injector := do.New()
	do.ProvideValue(injector, cfg)
	metrics.RegisterDI(injector)

	closeStore := func() {}

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		slog.Warn("using the in-memory store; data is lost on restart")
		memory.RegisterDI(injector, memory.New())
	default:
		db, err := database.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("connected to database")
		closeStore = func() {
			if err := db.Close(); err != nil {
				slog.Error("failed to close database", "error", err)
			}
		}
		postgres.RegisterDI(injector, db)
		go do.MustInvoke[*metrics.Metrics](injector).WatchDatabase(ctx, db, databasePingPeriod)
	}

	member.RegisterDI(injector)
	attendee.RegisterDI(injector)
	auth.RegisterDI(injector)
	meeting.RegisterDI(injector)
	checkin.RegisterDI(injector)
	feedback.RegisterDI(injector)
	timing.RegisterDI(injector)
	vote.RegisterDI(injector)
	post.RegisterDI(injector)
	attendance.RegisterDI(injector)

	return injector, closeStore, nil
}

func newRouter(injector do.Injector) http.Handler {
	m := do.MustInvoke[*metrics.Metrics](injector)
	verifier := do.MustInvoke[*auth.Verifier](injector)
	classifier := do.MustInvoke[*identity.Classifier](injector)

	memberHandler := do.MustInvoke[*member.Handler](injector)
	meetingHandler := do.MustInvoke[*meeting.Handler](injector)
	checkinHandler := do.MustInvoke[*checkin.Handler](injector)
	feedbackHandler := do.MustInvoke[*feedback.Handler](injector)
	timingHandler := do.MustInvoke[*timing.Handler](injector)
	voteHandler := do.MustInvoke[*vote.Handler](injector)
	postHandler := do.MustInvoke[*post.Handler](injector)
	attendanceHandler := do.MustInvoke[*attendance.Handler](injector)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", m.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Authenticate(verifier, classifier))

		r.Mount("/members", memberHandler.Routes())
		r.Mount("/meetings", meetingHandler.Routes())
		r.Mount("/meetings/{meetingID}/checkins", checkinHandler.Routes())
		r.Mount("/meetings/{meetingID}/feedbacks", feedbackHandler.Routes())
		r.Mount("/meetings/{meetingID}/timings", timingHandler.Routes())
		r.Mount("/meetings/{meetingID}/awards", voteHandler.AwardRoutes())
		r.Mount("/meetings/{meetingID}/votes", voteHandler.VoteRoutes())
		r.Mount("/meetings/{meetingID}/attendance", attendanceHandler.MeetingRoutes())
		r.Mount("/stats", attendanceHandler.StatsRoutes())
		r.Mount("/posts", postHandler.Routes())
	})

	return r
}
