package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/pharmtrack/pharmtrack/internal/client/api"
	"github.com/pharmtrack/pharmtrack/internal/client/config"
	"github.com/pharmtrack/pharmtrack/internal/client/recovery"
	"github.com/pharmtrack/pharmtrack/internal/client/repositories/metadata"
	"github.com/pharmtrack/pharmtrack/internal/client/services"
	"github.com/pharmtrack/pharmtrack/internal/client/session"
	"github.com/pharmtrack/pharmtrack/internal/client/storage"
	"github.com/pharmtrack/pharmtrack/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	api         *api.Client
	meta        metadata.Repository
	flow        *recovery.Flow
	db          *sql.DB
	log         logging.Logger
	reader      *bufio.Reader

	// mode is shared between the REPL and the connectivity watcher
	// goroutine; access it through CurrentMode/setMode only.
	mu   sync.Mutex
	mode Mode
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	db, err := storage.Open(ctx, c.LocalDBPath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	sessions := session.NewKVStore(db)
	meta := metadata.NewSQLiteRepository(db)
	apiClient := api.New(c.APIRootURL, c.RequestTimeout, sessions, logger)

	as := services.NewAuthService(apiClient, sessions, meta)
	flow := recovery.NewFlow(meta, apiClient)

	return &App{
		config:      c,
		authService: as,
		api:         apiClient,
		meta:        meta,
		flow:        flow,
		db:          db,
		log:         logger,
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

// CurrentMode returns the connectivity mode as last observed.
func (a *App) CurrentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	sess, err := a.authService.CurrentSession(context.Background())
	return err == nil && sess.Valid()
}

// StartOnlineStatusWatcher periodically probes backend reachability and keeps
// the connectivity mode in sync. Whenever the backend is reachable, any
// password reset parked under the pending-sync marker is replayed and the
// marker cleared.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.api.Health(probeCtx)

			if err != nil {
				cancel()
				if a.CurrentMode() == ModeOnline {
					a.setMode(ModeOffline)
				}
				continue
			}

			if a.CurrentMode() != ModeOnline {
				a.setMode(ModeOnline)
			}

			drained, err := recovery.DrainPending(probeCtx, a.meta, a.api)
			cancel()
			if err != nil {
				a.log.Warn(ctx, "pending password sync failed", "error", err)
			} else if drained {
				log.Println("Pending password change synced to the server")
			}

		case <-ctx.Done():
			return
		}
	}
}
