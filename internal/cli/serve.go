package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yomanFX/vikula2/internal/api"
	"github.com/yomanFX/vikula2/internal/court"
	"github.com/yomanFX/vikula2/internal/daemon"
	"github.com/yomanFX/vikula2/internal/domain"
	"github.com/yomanFX/vikula2/internal/infra/notify"
	"github.com/yomanFX/vikula2/internal/infra/rest"
	"github.com/yomanFX/vikula2/internal/infra/sqlite"
	"github.com/yomanFX/vikula2/internal/ledger"
	"github.com/yomanFX/vikula2/internal/transition"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("config", "", "Path to config.toml (default ~/.vikula2/config.toml)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ledger service",
	Long: `Start the HTTP API, the background ledger refresh loop and, when
configured, the redis change feed. The service keeps working against its
local mirror when the backing store is unreachable.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := daemon.Load(cfgPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ─── Ledger store ───────────────────────────────────────────────────

	var (
		backend ledger.Backend
		opts    []ledger.Option
	)
	switch cfg.Ledger.Backend {
	case "memory":
		log.Printf("ledger: in-memory backend (nothing is persisted)")
		backend = ledger.NewMemoryBackend()
	case "sqlite":
		if err := os.MkdirAll(daemon.ConfigDir(), 0700); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
		db, err := sqlite.Open(cfg.LedgerPath())
		if err != nil {
			return fmt.Errorf("open ledger database: %w", err)
		}
		defer db.Close()
		log.Printf("ledger: sqlite backend at %s", cfg.LedgerPath())
		backend = db
	case "rest":
		if cfg.Ledger.URL == "" {
			return fmt.Errorf("rest backend needs [ledger].url")
		}
		log.Printf("ledger: remote backend at %s", cfg.Ledger.URL)
		backend = rest.NewClient(cfg.Ledger.URL, 15*time.Second)
	default:
		return fmt.Errorf("unknown ledger backend %q (want sqlite, rest or memory)", cfg.Ledger.Backend)
	}

	if cfg.Ledger.MirrorPath != "" {
		mirror, err := sqlite.Open(cfg.Ledger.MirrorPath)
		if err != nil {
			return fmt.Errorf("open mirror database: %w", err)
		}
		defer mirror.Close()
		log.Printf("ledger: offline mirror at %s", cfg.Ledger.MirrorPath)
		opts = append(opts, ledger.WithMirror(mirror))
	}
	store := ledger.New(backend, opts...)

	// ─── Court ──────────────────────────────────────────────────────────

	oracleTimeout := daemon.ParseInterval(cfg.Oracle.Timeout, court.DefaultTimeout)
	var oracle court.Oracle
	if cfg.Oracle.URL != "" {
		oracle = court.NewHTTPOracle(cfg.Oracle.URL, oracleTimeout)
		log.Printf("court: oracle at %s", cfg.Oracle.URL)
	} else {
		// Cases still resolve: every appeal upholds the original
		// judgment until an oracle is configured.
		oracle = unavailableOracle{}
		log.Printf("court: no oracle configured, appeals default to uphold")
	}
	judge := court.New(store, oracle, oracleTimeout)

	// ─── Change feed ────────────────────────────────────────────────────

	var notifier notify.Notifier = notify.Noop{}
	if cfg.Notify.Addr != "" {
		r, err := notify.NewRedis(ctx, cfg.Notify.Addr, cfg.Notify.DB, cfg.Notify.Channel)
		if err != nil {
			log.Printf("notify: redis unavailable (%v), falling back to polling", err)
		} else {
			defer r.Close()
			notifier = r
			log.Printf("notify: redis feed on %s channel %q", cfg.Notify.Addr, cfg.Notify.Channel)
		}
	}

	// ─── HTTP API ───────────────────────────────────────────────────────

	srv := api.NewServer(store, transition.New(store), judge)
	if cfg.API.Metrics {
		srv.EnableMetrics()
	}
	srv.SetPIN(cfg.Auth.PIN)

	// The server broadcasts store changes to its websocket clients
	// itself; local writes additionally go out on the change feed.
	srv.OnMutate(notifier.Publish)

	interval := daemon.ParseInterval(cfg.Ledger.RefreshInterval, 30*time.Second)
	go store.Run(ctx, interval, notifier.Wake())

	httpSrv := &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: srv.Handler(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	log.Printf("vikuld listening on %s", cfg.ListenAddr())
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Printf("vikuld stopped")
	return nil
}

// unavailableOracle fails every judgment so the court applies its
// safe default.
type unavailableOracle struct{}

func (unavailableOracle) Judge(context.Context, court.Request) (court.Verdict, error) {
	return court.Verdict{}, fmt.Errorf("no oracle configured: %w", domain.ErrOracleFailure)
}
