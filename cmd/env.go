package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/brianquiz/brianquiz/internal/auth"
	"github.com/brianquiz/brianquiz/internal/config"
	"github.com/brianquiz/brianquiz/internal/kv"
	"github.com/brianquiz/brianquiz/internal/logger"
	"github.com/brianquiz/brianquiz/internal/slots"
	"github.com/brianquiz/brianquiz/internal/store"
	"github.com/brianquiz/brianquiz/internal/store/redisstore"
)

// env is everything a command needs: configuration, a logger and the
// persistence backends. events is nil when the SQLite store is not open.
type env struct {
	cfg    *config.Config
	log    zerolog.Logger
	kv     kv.Store
	events store.EventRepo

	closers []io.Closer
}

func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i].Close())
	}
	return errors.Join(errs...)
}

// loadEnv reads configuration, applies the persistent flags and opens the
// configured storage.
func loadEnv(cmd *cobra.Command) (*env, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{File: cfgFile})
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Storage.Path = p
	}
	if p, _ := cmd.Flags().GetString("log-file"); p != "" {
		cfg.Log.File = p
	}

	e := &env{cfg: cfg}

	w, err := logger.OpenFile(cfg.Log.File)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, w)
	e.log = logger.Setup(cfg.Log.Level, cfg.Log.Format, w)

	if err := e.openStorage(cmd.Context()); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *env) openStorage(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	switch e.cfg.Storage.Driver {
	case config.DriverRedis:
		r := e.cfg.Storage.Redis
		rs, err := redisstore.Connect(ctx, redisstore.Options{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
			Prefix:   r.Prefix,
		}, e.log)
		if err != nil {
			return fmt.Errorf("open redis store: %w", err)
		}
		e.closers = append(e.closers, rs)
		e.kv = rs
		return nil
	}

	if err := store.EnsureDir(e.cfg.Storage.Path); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	st, err := store.Open(e.cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	e.closers = append(e.closers, st)
	e.kv = st.KV()
	e.events = st.EventRepo()
	e.log.Debug().Str("path", e.cfg.Storage.Path).Msg("sqlite store opened")
	return nil
}

func (e *env) accounts() *auth.Service {
	return auth.New(e.kv, auth.Options{Logger: e.log})
}

// userSlots loads the slots owned by username.
func (e *env) userSlots(ctx context.Context, username string) (*slots.Store, error) {
	if username == "" {
		return nil, errors.New("--user is required")
	}
	u, err := e.accounts().Lookup(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("look up %q: %w", username, err)
	}
	return slots.Load(ctx, e.kv, u.ID, slots.Options{
		Count:           e.cfg.Quiz.SlotCount,
		MaxParticipants: e.cfg.Quiz.MaxParticipants,
		Logger:          e.log,
	}), nil
}

// eventRepo returns the LLM event log or an error when the backend keeps
// none.
func (e *env) eventRepo() (store.EventRepo, error) {
	if e.events == nil {
		return nil, fmt.Errorf("the %s storage driver keeps no AI request log", e.cfg.Storage.Driver)
	}
	return e.events, nil
}
