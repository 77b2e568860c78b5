// Package server initializes and runs the notes server application: it wires
// configuration, storage, the session manager and the business services into
// the TCP endpoint and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/ecnotes/internal/logging"
	"github.com/dmitrijs2005/ecnotes/internal/server/config"
	"github.com/dmitrijs2005/ecnotes/internal/server/repositories/repomanager"
	sessionsrepo "github.com/dmitrijs2005/ecnotes/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/ecnotes/internal/server/services"
	"github.com/dmitrijs2005/ecnotes/internal/server/sessions"
	"github.com/dmitrijs2005/ecnotes/internal/server/tcp"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	server      *tcp.Server
}

// NewApp assembles the application from config. With an empty DatabaseDSN
// everything runs on the in-memory store; with an empty RedisAddr sessions
// live in the primary store.
func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout)

	var (
		db *sql.DB
		m  repomanager.RepositoryManager
	)
	if cfg.DatabaseDSN != "" {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		m = repomanager.NewPostgresRepositoryManager()
	} else {
		m = repomanager.NewInMemoryRepositoryManager()
	}

	var sessionRepo sessionsrepo.Repository = m.Sessions(db)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		sessionRepo = sessionsrepo.NewRedisRepository(rdb)
	}

	sm := sessions.NewService(sessionRepo, cfg.SessionTTL)
	us := services.NewUserService(db, m, sm)
	ns := services.NewNoteService(db, m)

	handler := tcp.NewHandler(us, ns, sm, logger)
	srv := tcp.NewServer(cfg.ListenAddr, cfg.MaxClients, handler, logger)

	return &App{config: cfg, logger: logger, db: db, repomanager: m, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run migrates the database if one is attached and serves until an OS signal
// or context cancellation stops it.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	if app.db != nil {
		defer app.db.Close()

		if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
			app.logger.Error(ctx, "migration error", "error", err.Error())
			return
		}
	}

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "server error", "error", err.Error())
	}
}
