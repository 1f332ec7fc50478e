// Package app composes the client with fx: configuration, logging, durable
// storage, session, router, API gateway and the root store.
package app

import (
	"context"
	"errors"
	"syscall"

	"github.com/matheus3301/wppdash/internal/api"
	"github.com/matheus3301/wppdash/internal/bus"
	"github.com/matheus3301/wppdash/internal/config"
	"github.com/matheus3301/wppdash/internal/logging"
	"github.com/matheus3301/wppdash/internal/profile"
	"github.com/matheus3301/wppdash/internal/router"
	"github.com/matheus3301/wppdash/internal/session"
	"github.com/matheus3301/wppdash/internal/state"
	"github.com/matheus3301/wppdash/internal/storage"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Params holds the resolved profile and configuration passed to the module.
type Params struct {
	Profile string
	Config  *config.Config
	// StderrLevel is the minimum level echoed to stderr.
	StderrLevel zapcore.Level
}

// Module returns the fx module for a client bound to one profile.
func Module(p Params) fx.Option {
	return fx.Module("wppdash",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideBus,
			provideStorage,
			provideSession,
			provideRouter,
			provideGateway,
			provideRoot,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	if err := profile.EnsureDir(p.Profile); err != nil {
		return nil, err
	}
	return logging.New(profile.LogPath(p.Profile), p.Profile, p.StderrLevel)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStorage(p Params, logger *zap.Logger) (*storage.DB, error) {
	dbPath := profile.StatePath(p.Profile)
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Debug("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Debug("storage initialized", zap.String("path", dbPath))
	return db, nil
}

func provideSession(db *storage.DB, b *bus.Bus, logger *zap.Logger) (*session.Session, error) {
	return session.Load(db, b, logger)
}

func provideRouter(sess *session.Session, b *bus.Bus, logger *zap.Logger) *router.Router {
	return router.New(router.Table, sess, b, logger.Named("router"))
}

func provideGateway(p Params, sess *session.Session, r *router.Router, logger *zap.Logger) *api.Gateway {
	return api.New(api.Options{
		BaseURL: p.Config.BaseURL,
		Timeout: p.Config.Timeout,
	}, sess, r, logger.Named("api"))
}

func provideRoot(gw *api.Gateway, sess *session.Session, b *bus.Bus, logger *zap.Logger) *state.Root {
	return state.NewRoot(gw, sess, b, logger)
}

func registerLifecycle(lc fx.Lifecycle, p Params, db *storage.DB, sess *session.Session, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Debug("client started",
				zap.String("base_url", p.Config.BaseURL),
				zap.Bool("authenticated", sess.IsAuthenticated()))
			return nil
		},
		OnStop: func(_ context.Context) error {
			if err := db.Close(); err != nil {
				logger.Warn("error closing storage", zap.Error(err))
			}
			// Sync fails with EINVAL/ENOTTY on a terminal stderr.
			if err := logger.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
				return err
			}
			return nil
		},
	})
}
