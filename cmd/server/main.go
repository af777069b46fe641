package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	_ "pollit/docs"
	"pollit/internal/config"
	"pollit/internal/domain/comment"
	"pollit/internal/domain/poll"
	"pollit/internal/domain/vote"
	api "pollit/internal/http"
	"pollit/internal/identity"
	"pollit/internal/metrics"
	"pollit/internal/platform/database"
	"pollit/internal/platform/logging"
	"pollit/internal/realtime"
	"pollit/internal/repository/postgres"
	"pollit/internal/worker"
)

// @title           Poll.it API
// @version         1.0
// @description     Real-time polling: create polls, vote, watch results live
// @BasePath        /api/v1
func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	metrics.Register()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.DB_DSN)
	if err != nil {
		logger.Fatal("db connect error", zap.Error(err))
	}
	defer db.Close()

	pollRepo := postgres.NewPollRepo(db)
	voteRepo := postgres.NewVoteRepo(db)
	commentRepo := postgres.NewCommentRepo(db)

	pollSvc := poll.NewService(pollRepo)
	voteSvc := vote.NewService(voteRepo)
	commentSvc := comment.NewService(commentRepo)

	ident := identity.Deriver{
		Anonymize: cfg.AnonymizeVoters,
		Salt:      cfg.VoterSalt,
	}

	// The hub is an explicit dependency of everything that publishes;
	// nothing reaches it through package state.
	hub := realtime.NewHub(logger)
	ws := realtime.NewWSHandler(hub, logger)

	events := make(chan worker.Event, 256)
	broadcaster := worker.NewBroadcaster(events, hub, logger)
	go broadcaster.Run(ctx)

	router := api.NewRouter(pollSvc, voteSvc, commentSvc, ident, events, ws, db, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	<-stop
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
}
