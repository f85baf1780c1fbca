package main

import (
	"errors"
	"sync"

	"github.com/gearboxgarage/gearbox/config"
	"github.com/gearboxgarage/gearbox/internal/confirm"
	"github.com/gearboxgarage/gearbox/internal/notify"
	"github.com/gearboxgarage/gearbox/internal/querycache"
	"github.com/gearboxgarage/gearbox/internal/session"
	"github.com/gearboxgarage/gearbox/internal/viewmodels"
	"github.com/gearboxgarage/gearbox/pkg/cache"
	"github.com/gearboxgarage/gearbox/pkg/logger"
)

var (
	wireOnce sync.Once
	theApp   *viewmodels.App
	store    *session.Store
)

// app wires the console exactly once per process: config, the optional
// Redis reference cache, the shared query cache, and the session store
// restored from disk.
func app() *viewmodels.App {
	wireOnce.Do(func() {
		if err := config.Load(); err != nil {
			logger.Warn("config load failed, using defaults", "error", err)
		}
		if err := cache.Connect(); err != nil {
			logger.Debug("redis unavailable, vehicle lookups go straight to the network", "error", err)
		}

		qc := querycache.New()
		store = session.NewStore(qc)
		store.Restore()

		theApp = viewmodels.NewApp(store, qc, confirm.NewTerminal(), notify.NewConsole())
	})
	return theApp
}

// requireAuth is the guard every authenticated command runs first.
func requireAuth() error {
	app()
	if !store.IsAuthenticated() {
		return errors.New("not logged in — run `gearbox login` first")
	}
	return nil
}
