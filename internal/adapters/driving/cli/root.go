package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luminary-labs/donoriq/internal/adapters/driven/accounting/quickbooks"
	"github.com/luminary-labs/donoriq/internal/adapters/driven/ai"
	"github.com/luminary-labs/donoriq/internal/adapters/driven/config/file"
	"github.com/luminary-labs/donoriq/internal/adapters/driven/storage/sqlite"
	"github.com/luminary-labs/donoriq/internal/core/ports/driven"
	"github.com/luminary-labs/donoriq/internal/core/ports/driving"
	"github.com/luminary-labs/donoriq/internal/core/services"
	"github.com/luminary-labs/donoriq/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired by Execute. Tests swap these for mocks.
var (
	searchService   driving.DonorSearchService
	insightsService driving.InsightsService
	outreachService driving.OutreachService
	giftSyncService driving.GiftSyncService
	settingsService driving.SettingsService
	donorDirectory  driving.DonorDirectory
	configStore     driven.ConfigStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "donoriq",
	Short: "Donor intelligence for small nonprofits",
	Long: `Donoriq keeps a nonprofit's donor records searchable and actionable.
It combines semantic donor search, giving analytics, lifecycle
classification, privacy-preserving letter drafting, and gift sync from
the connected accounting system.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute wires the application together and runs the root command.
func Execute() error {
	store, cfgStore, err := initServices()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close() //nolint:errcheck // best-effort close on exit
	}

	// Pick up config edits made while a long-running command (sync,
	// reindex) is in flight. The watcher stops when Execute returns.
	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	go func() {
		err := cfgStore.Watch(watchCtx, func(reloadErr error) {
			if reloadErr != nil {
				logger.Warn("Config reload failed: %v", reloadErr)
				return
			}
			logger.Debug("Config reloaded from %s", cfgStore.Path())
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("Config watch stopped: %v", err)
		}
	}()

	return rootCmd.Execute()
}

// initServices builds the adapter stack and the core services. Optional
// services (embedding, LLM, accounting) degrade to nil when unconfigured;
// the affected commands report what is missing.
func initServices() (*sqlite.Store, *file.ConfigStore, error) {
	cfgStore, err := file.NewConfigStore("")
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	configStore = cfgStore

	store, err := sqlite.NewStore("")
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	settingsService = services.NewSettingsService(cfgStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("loading settings: %w", err)
	}

	// Optional AI services. Creation failures are warnings, not fatal:
	// the core commands still work without them.
	embeddingService, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		logger.Warn("Embedding service unavailable: %v", err)
	}
	llmService, err := ai.CreateLLMService(&settings.LLM)
	if err != nil {
		logger.Warn("LLM service unavailable: %v", err)
	}

	var vectorIndex driven.VectorIndex
	if embeddingService != nil {
		vectorIndex = store.VectorIndex()
	}

	var accounting driven.AccountingGateway
	if settings.Accounting.IsConfigured() {
		gateway, gwErr := quickbooks.NewGateway(context.Background(), quickbooks.Config{
			RealmID:      settings.Accounting.RealmID,
			ClientID:     settings.Accounting.ClientID,
			ClientSecret: settings.Accounting.ClientSecret,
			RefreshToken: settings.Accounting.RefreshToken,
			BaseURL:      settings.Accounting.BaseURL,
		})
		if gwErr != nil {
			logger.Warn("Accounting gateway unavailable: %v", gwErr)
		} else {
			accounting = gateway
		}
	}

	promptStore, err := file.NewPromptStore("")
	if err != nil {
		return nil, nil, fmt.Errorf("opening prompt store: %w", err)
	}

	donorStore := store.DonorStore()
	giftStore := store.GiftStore()
	interactionStore := store.InteractionStore()

	searchService = services.NewSearchService(donorStore, vectorIndex, embeddingService)
	insightsService = services.NewInsightsService(donorStore, giftStore, settings.Lifecycle)
	outreachService = services.NewOutreachService(
		donorStore, giftStore, interactionStore, llmService, promptStore, settings.Lifecycle)
	giftSyncService = services.NewSyncService(
		donorStore, giftStore, store.SyncStateStore(), accounting, embeddingService, vectorIndex)
	donorDirectory = services.NewDonorService(donorStore, giftStore, interactionStore)

	return store, cfgStore, nil
}

// resolveOrg returns the --org flag value, falling back to the configured
// default organisation.
func resolveOrg(cmd *cobra.Command) (string, error) {
	org, _ := cmd.Flags().GetString("org") //nolint:errcheck // flag registered below
	if org != "" {
		return org, nil
	}
	if configStore != nil {
		if def := configStore.GetString("org.default"); def != "" {
			return def, nil
		}
	}
	return "", errors.New("no organisation given: pass --org or run 'donoriq settings org'")
}

// addOrgFlag registers the shared --org flag on a command.
func addOrgFlag(cmd *cobra.Command) {
	cmd.Flags().String("org", "", "organisation id (defaults to the configured org)")
}
