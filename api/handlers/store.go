package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/Songmu/retry"
	"go.uber.org/zap"

	"github.com/linesmerrill/dispatch-console/countdown"
	"github.com/linesmerrill/dispatch-console/databases"
	"github.com/linesmerrill/dispatch-console/storage/sqlite"
)

const (
	connectAttempts = 5
	connectInterval = 2 * time.Second
	connectTimeout  = 10 * time.Second
)

// openStore picks the countdown store named by the config and registers
// its cleanup with the app
func (a *App) openStore(ctx context.Context) (countdown.Store, error) {
	switch a.Config.Store {
	case "mongo":
		return a.openMongo(ctx)
	case "sqlite":
		s, err := sqlite.Open(a.Config.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return s.Close() })
		return s, nil
	case "", "memory":
		return countdown.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown countdown store %q", a.Config.Store)
}

func (a *App) openMongo(ctx context.Context) (countdown.Store, error) {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return nil, err
	}

	err = retry.Retry(connectAttempts, connectInterval, func() error {
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		if err := client.Connect(ctx); err != nil {
			zap.S().Warnw("failed to connect to database, retrying", "error", err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	err = retry.Retry(connectAttempts, connectInterval, func() error {
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		return client.Ping(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	zap.S().Info("dispatch-console has connected to the database")

	a.closers = append(a.closers, client.Disconnect)
	return databases.NewCountdownStore(databases.NewDatabase(&a.Config, client)), nil
}
