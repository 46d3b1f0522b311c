package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/client"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/config"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/reconcile"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/services"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/session"
	"github.com/dmitrijs2005/fridgekeeper/internal/filex"
	"github.com/dmitrijs2005/fridgekeeper/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

var _ execIface = (*App)(nil)

type App struct {
	config *config.Config
	log    logging.Logger

	auth      services.AuthService
	products  services.ProductService
	notes     services.NoteService
	profile   services.ProfileService
	recipes   services.RecipeService
	reminders services.ReminderService
	hints     services.HintService

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time

	closers []io.Closer

	mu       sync.Mutex
	mode     Mode
	userName string
}

// NewApp opens the local store selected by c and connects the services to
// the backend at c.APIBaseURL.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, logCloser := logging.New(logging.Options{
		Backend: c.LogBackend,
		Level:   c.LogLevel,
		Format:  c.LogFormat,
		File:    c.LogFile,
	})

	store, storeCloser, err := openStore(ctx, c)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}

	sess := session.New(store)
	api := client.NewHTTPClient(c.APIBaseURL, sess,
		client.WithTimeout(c.HTTPTimeout),
		client.WithLogger(logger),
	)
	deps := services.NewDeps(api, sess, store, logger, reconcile.RetryPolicy{
		Attempts: c.RetryAttempts,
		Delay:    c.RetryDelay,
	})

	a := newApp(deps, os.Stdin, os.Stdout)
	a.config = c
	a.closers = []io.Closer{storeCloser, logCloser}
	return a, nil
}

func newApp(d *services.Deps, in io.Reader, out io.Writer) *App {
	auth := services.NewAuthService(d)
	a := &App{
		config:   &config.Config{},
		log:      d.Log,
		auth:     auth,
		products: services.NewProductService(d),
		notes:    services.NewNoteService(d),
		profile:  services.NewProfileService(d, auth),
		recipes:  services.NewRecipeService(d),
		hints:    services.NewHintService(d),
		reader:   bufio.NewReader(in),
		out:      out,
		now:      time.Now,
	}
	a.reminders = services.NewReminderService(d, &printNotifier{out: out})
	return a
}

func openStore(ctx context.Context, c *config.Config) (kv.Store, io.Closer, error) {
	switch c.Store {
	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", c.RedisAddr, err)
		}
		return kv.NewRedisStore(rdb, c.RedisNamespace), rdb, nil
	default:
		if err := filex.EnsureParentDir(c.DBPath); err != nil {
			return nil, nil, err
		}
		db, err := kv.InitDatabase(ctx, c.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("error initializing database: %w", err)
		}
		return kv.NewSQLiteStore(db), db, nil
	}
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) status() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.userName
	if a.mode != "" {
		if s != "" {
			s += " "
		}
		s += string(a.mode)
	}
	if s != "" {
		s = "(" + s + ")"
	}
	return s
}

func (a *App) setUserName(name string) {
	a.mu.Lock()
	a.userName = name
	a.mu.Unlock()
}

// Run starts the background watchers and blocks in the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.close()

	fmt.Fprintln(a.out, "Welcome to fridgekeeper (type 'help' for commands)")

	if a.config.MetricsAddr != "" {
		go func() {
			if err := serveMetrics(ctx, a.config.MetricsAddr); err != nil {
				a.log.Warn(ctx, "metrics server stopped", "err", err)
			}
		}()
	}

	a.checkOnline(ctx)
	if a.config.OnlineCheckInterval > 0 {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	if a.isLoggedIn() {
		a.afterLogin(ctx)
	}

	runREPL(ctx, a, a.status, a.reader, a.out)
	return nil
}

func (a *App) close() {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	if err := errors.Join(errs...); err != nil {
		fmt.Fprintln(os.Stderr, "close error:", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.auth.LoggedIn(context.Background())
}

// StartOnlineStatusWatcher pings the backend every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.auth.Ping(pctx)
	cancel()
	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// afterLogin loads the profile name and runs the daily expiry reminder.
func (a *App) afterLogin(ctx context.Context) {
	if p, err := a.profile.Load(ctx); err == nil {
		name := p.Name
		if name == "" {
			name = p.Email
		}
		a.setUserName(name)
	} else {
		a.log.Warn(ctx, "profile not loaded", "err", err)
	}

	if _, err := a.reminders.CheckDaily(ctx, a.now()); err != nil {
		a.log.Warn(ctx, "expiry reminder failed", "err", err)
	}
}
