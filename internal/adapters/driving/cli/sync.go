package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luminary-labs/donoriq/internal/core/domain"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull gifts from the connected accounting system",
	Long: `Pulls new gift transactions from the connected accounting system,
updates each affected donor's lifetime giving and last gift date, and
refreshes their entries in the semantic search index.

Sync resumes from where the last run left off, so running it again
after an interruption is safe.`,
	RunE: runSync,
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the semantic search index",
	Long: `Re-embeds every donor profile in the organisation into the semantic
search index. Run this after switching embedding providers or models,
since vectors from different models are not comparable.`,
	RunE: runReindex,
}

func init() {
	addOrgFlag(syncCmd)
	addOrgFlag(reindexCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(reindexCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if giftSyncService == nil {
		return errors.New("gift sync service not configured")
	}

	orgID, err := resolveOrg(cmd)
	if err != nil {
		return err
	}

	cmd.Printf("Syncing gifts for %s...\n", orgID)

	report, err := giftSyncService.Sync(context.Background(), orgID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSyncInProgress):
			return errors.New("a sync is already running for this organisation")
		case errors.Is(err, domain.ErrAccountingUnavailable):
			return errors.New("no accounting connection configured: run 'donoriq settings accounting'")
		}
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Printf("Gifts upserted:  %d\n", report.GiftsUpserted)
	cmd.Printf("Donors updated:  %d\n", report.DonorsTouched)
	cmd.Printf("Donors indexed:  %d\n", report.DonorsIndexed)

	return nil
}

func runReindex(cmd *cobra.Command, _ []string) error {
	if giftSyncService == nil {
		return errors.New("gift sync service not configured")
	}

	orgID, err := resolveOrg(cmd)
	if err != nil {
		return err
	}

	cmd.Printf("Reindexing donor profiles for %s...\n", orgID)

	count, err := giftSyncService.Reindex(context.Background(), orgID)
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return errors.New("reindexing needs an embedding provider: run 'donoriq settings embedding'")
		}
		return fmt.Errorf("reindex failed: %w", err)
	}

	cmd.Printf("Indexed %d donor(s)\n", count)

	return nil
}
