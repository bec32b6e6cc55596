package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "dugout/internal/adapters/email"
	web "dugout/internal/adapters/http"
	"dugout/internal/adapters/http/perf"
	"dugout/internal/adapters/identity"
	"dugout/internal/adapters/storage"
	attendanceStore "dugout/internal/adapters/storage/attendance"
	eventStore "dugout/internal/adapters/storage/event"
	memberStore "dugout/internal/adapters/storage/member"
	memoStore "dugout/internal/adapters/storage/memo"
	"dugout/internal/application/orchestrators"
	"dugout/internal/config"
	"dugout/internal/domain/access"
	"dugout/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("startup_event", "event", "failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logFile := logger.Init(cfg.Log)
	defer logFile.Close()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Performance instrumentation shared by the request timer and the stores.
	collector := perf.NewCollector(perf.DefaultRingSize)
	timer := storage.NewOpTimer(collector, cfg.Store.SlowOpThreshold)

	stores, closeStores, err := openStores(ctx, cfg, timer)
	if err != nil {
		return err
	}
	defer closeStores.Close()

	provider, err := newIdentityProvider(cfg)
	if err != nil {
		return err
	}

	csrfKey, err := web.LoadCSRFKey(cfg.Server.CSRFKey, cfg.Production())
	if err != nil {
		return err
	}

	srv := web.NewServer(stores, provider, newNotifier(cfg), collector, web.Options{
		AppID:              cfg.App.LiffAppID,
		Admins:             access.NewAdminSet(cfg.App.AdminIDs),
		Location:           loc,
		UpcomingVisible:    cfg.App.UpcomingVisible,
		MemoPageSize:       cfg.App.MemoPageSize,
		CSRFKey:            csrfKey,
		TrustedOrigins:     cfg.Server.TrustedOrigins,
		SecureCookies:      cfg.Production(),
		RateLimitPerSecond: cfg.Server.RateLimit,
		RequestTimeout:     cfg.Server.RequestTimeout,
		SlowRequestMs:      cfg.Server.SlowRequestMs,
	})
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.NewMux(cfg.Server.StaticDir),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("startup_event", "event", "listening", "version", version, "addr", cfg.Server.Addr,
			"env", cfg.Server.Env, "store", cfg.Store.Backend, "identity", cfg.Identity.Provider)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutdown_event", "event", "draining")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("shutdown_event", "event", "stopped")
	return nil
}

// openStores connects the configured backend and builds every store on it.
func openStores(ctx context.Context, cfg *config.Config, timer *storage.OpTimer) (web.Stores, io.Closer, error) {
	switch cfg.Store.Backend {
	case config.BackendFirestore:
		client, err := storage.OpenFirestore(ctx, cfg.Store.FirestoreProject, cfg.Store.FirestoreCredentials)
		if err != nil {
			return web.Stores{}, nil, err
		}
		slog.Info("startup_event", "event", "store_ready", "backend", "firestore", "project", cfg.Store.FirestoreProject)
		return web.Stores{
			EventStore:      eventStore.NewFirestoreStore(client, timer),
			MemberStore:     memberStore.NewFirestoreStore(client, timer),
			AttendanceStore: attendanceStore.NewFirestoreStore(client, timer),
			MemoStore:       memoStore.NewFirestoreStore(client, timer),
		}, client, nil

	default:
		dsn := cfg.Store.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return web.Stores{}, nil, fmt.Errorf("open database: %w", err)
		}
		// Connection pool settings for WAL mode
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return web.Stores{}, nil, fmt.Errorf("database unreachable: %w", err)
		}
		if err := storage.InitDB(db); err != nil {
			db.Close()
			return web.Stores{}, nil, fmt.Errorf("init database: %w", err)
		}
		slog.Info("startup_event", "event", "store_ready", "backend", "sqlite", "path", cfg.Store.SQLitePath)

		timed := storage.NewTimedDB(db, timer)
		return web.Stores{
			EventStore:      eventStore.NewSQLiteStore(timed),
			MemberStore:     memberStore.NewSQLiteStore(timed),
			AttendanceStore: attendanceStore.NewSQLiteStore(timed),
			MemoStore:       memoStore.NewSQLiteStore(timed, time.Now),
		}, timed, nil
	}
}

func newIdentityProvider(cfg *config.Config) (identity.Provider, error) {
	switch cfg.Identity.Provider {
	case config.ProviderDev:
		return identity.NewDevProvider(), nil
	case config.ProviderLine:
		return identity.NewLineProvider(cfg.Identity.ChannelID, cfg.Identity.ChannelSecret), nil
	default:
		return nil, fmt.Errorf("unknown identity provider %q", cfg.Identity.Provider)
	}
}

// newNotifier returns nil unless recipients are configured. Without a Resend key
// the message is logged by the noop sender instead of delivered.
func newNotifier(cfg *config.Config) orchestrators.EventNotifier {
	var sender emailPkg.Sender
	if cfg.Notify.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.Notify.ResendKey, cfg.Notify.From)
		slog.Info("startup_event", "event", "email_configured", "sender", "resend")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.Production() && len(cfg.Notify.To) > 0 {
			slog.Warn("startup_event", "event", "email_disabled", "detail", "notify.resend_key is not set")
		}
	}
	n := emailPkg.NewShareNotifier(sender, cfg.Notify.From, cfg.Notify.To)
	if n == nil {
		return nil
	}
	return n
}
