// Package server initializes and runs the portal application: database and
// migrations, the live submission working set, the business services, and
// the HTTP server, with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/saydemoon/internship-portal/internal/logging"
	"github.com/saydemoon/internship-portal/internal/server/api"
	"github.com/saydemoon/internship-portal/internal/server/artifact"
	"github.com/saydemoon/internship-portal/internal/server/config"
	"github.com/saydemoon/internship-portal/internal/server/guard"
	"github.com/saydemoon/internship-portal/internal/server/notify"
	"github.com/saydemoon/internship-portal/internal/server/repositories/repomanager"
	"github.com/saydemoon/internship-portal/internal/server/services"
	"github.com/saydemoon/internship-portal/internal/server/syncstore"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager

	userService       *services.UserService
	profileService    *services.ProfileService
	submissionService *services.SubmissionService
	guard             *guard.Guard
	resolver          *artifact.Resolver
	store             *artifact.Store
	notifier          notify.Notifier
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	us := services.NewUserService(db, rm, c)
	ps := services.NewProfileService(db, rm)
	ss := services.NewSubmissionService(db, rm)

	return &App{
		config:            c,
		logger:            logger,
		db:                db,
		repomanager:       rm,
		userService:       us,
		profileService:    ps,
		submissionService: ss,
		guard:             guard.New(us, ps, logger),
		resolver:          artifact.NewResolver(c.S3BaseEndpoint, c.S3Bucket),
		store:             artifact.NewStore(c),
		notifier:          notify.NewEmailNotifier(c.NotifyEndpoint, c.NotifyAPIKey, c.RequestTimeout),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		app.logger.Error(ctx, "migrations failed", "error", err)
		return
	}

	feed, err := syncstore.NewPGListenFeed(ctx, app.config.DatabaseDSN, app.logger)
	if err != nil {
		app.logger.Error(ctx, "change feed init failed", "error", err)
		return
	}

	workingSet := syncstore.New(app.repomanager.Submissions(app.db), feed, app.logger)
	reviewService := services.NewReviewService(app.db, app.repomanager, workingSet, app.notifier)

	httpServer := api.NewServer(
		app.config.EndpointAddrHTTP,
		app.logger,
		app.guard,
		app.userService,
		app.profileService,
		app.submissionService,
		reviewService,
		workingSet,
		app.resolver,
		app.store,
	)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := workingSet.Run(ctx); err != nil {
			app.logger.Error(ctx, "working set stopped with error", "error", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err)
	}
}
