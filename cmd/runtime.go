package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillbuilder/internal/assistant"
	"github.com/abhisek/skillbuilder/internal/content"
	"github.com/abhisek/skillbuilder/internal/journey"
	"github.com/abhisek/skillbuilder/internal/llm"
	"github.com/abhisek/skillbuilder/internal/logging"
	"github.com/abhisek/skillbuilder/internal/store"
)

// storeTimeout bounds one-shot store queries.
const storeTimeout = 10 * time.Second

// runtime bundles what the TUI and the one-shot commands share.
type runtime struct {
	store   *store.Store
	logger  *zap.Logger
	catalog *content.Catalog
	journey *journey.Controller
	gateway assistant.Gateway
}

// openRuntime opens the store and logger, loads the catalog and restores
// the journey. The gateway is left unconfigured when no credentials are
// found; withGateway selects it.
func openRuntime(cmd *cobra.Command) (*runtime, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	logger, err := logging.New(logging.DefaultPath(filepath.Dir(dbPath)), logging.LevelFromEnv())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Logging disabled:", err)
		logger = zap.NewNop()
	}

	catalog, err := content.Load(resolveCatalogPath(cmd))
	if err != nil {
		logger.Sync()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		logger.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}

	eventRepo := st.EventRepo()
	ctrl := journey.NewController(catalog,
		journey.WithSnapshots(st.SnapshotRepo()),
		journey.WithPackRecorder(eventRepo),
		journey.WithLogger(logger.Named("journey")),
	)
	if err := ctrl.Restore(cmd.Context()); err != nil {
		logger.Warn("starting without saved progress", zap.Error(err))
	}

	return &runtime{
		store:   st,
		logger:  logger,
		catalog: catalog,
		journey: ctrl,
		gateway: assistant.UnconfiguredGateway{},
	}, nil
}

// withGateway picks the assistant gateway: a remote endpoint when
// SKILLBUILDER_ASSISTANT_URL is set, otherwise an LLM provider from the
// environment. Missing credentials are reported, not fatal.
func (r *runtime) withGateway(cmd *cobra.Command) {
	if url := os.Getenv("SKILLBUILDER_ASSISTANT_URL"); url != "" {
		r.gateway = assistant.NewHTTPGateway(url, assistant.DefaultConfig().Timeout)
		r.logger.Info("assistant gateway selected", zap.String("kind", "http"), zap.String("url", url))
		return
	}

	provider, cfg, err := llm.NewProviderFromEnv(cmd.Context(), r.store.EventRepo(), r.logger.Named("llm"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "The assistant will be unavailable.")
		r.logger.Warn("assistant unavailable", zap.Error(err))
		return
	}

	gwCfg := assistant.DefaultConfig()
	if cfg.Timeout > 0 {
		gwCfg.Timeout = cfg.Timeout
	}
	r.gateway = assistant.NewLLMGateway(provider, gwCfg)
	r.logger.Info("assistant gateway selected",
		zap.String("kind", "llm"),
		zap.String("provider", cfg.Provider),
		zap.String("model", provider.ModelID()),
	)
}

// newSession starts a conversation that records every turn.
func (r *runtime) newSession(provider assistant.ContextProvider) *assistant.Session {
	return assistant.NewSession(r.gateway, provider,
		assistant.WithRecorder(r.store.EventRepo()),
		assistant.WithLogger(r.logger.Named("assistant")),
	)
}

func (r *runtime) Close() {
	if err := r.store.Close(); err != nil {
		r.logger.Warn("close store", zap.Error(err))
	}
	_ = r.logger.Sync()
}
