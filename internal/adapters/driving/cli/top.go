package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luminary-labs/donoriq/internal/core/domain"
)

var topRange string

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Rank top donors by giving",
	Long: `Ranks the organisation's donors by total giving inside a time range.

Available ranges:
  30d  - last 30 days
  90d  - last 90 days
  ytd  - since January 1
  all  - all time (lifetime value)`,
	RunE: runTop,
}

func init() {
	topCmd.Flags().StringVarP(&topRange, "range", "r", "all", "giving range (30d, 90d, ytd, all)")
	addOrgFlag(topCmd)
	rootCmd.AddCommand(topCmd)
}

func runTop(cmd *cobra.Command, _ []string) error {
	if insightsService == nil {
		return errors.New("insights service not configured")
	}

	orgID, err := resolveOrg(cmd)
	if err != nil {
		return err
	}

	rankings, err := insightsService.TopDonors(context.Background(), orgID, domain.GivingRange(topRange))
	if err != nil {
		return fmt.Errorf("ranking donors failed: %w", err)
	}

	if len(rankings) == 0 {
		cmd.Println("No giving recorded in this range.")
		return nil
	}

	cmd.Printf("Top donors (%s):\n\n", topRange)
	for i, ranking := range rankings {
		cmd.Printf("  [%d] %s - $%.2f\n", i+1, ranking.Donor.Name, ranking.Total)
		lastGift := ranking.LastGiftInWindow
		if lastGift == "" {
			lastGift = ranking.Donor.LastGiftDate
		}
		if lastGift != "" {
			cmd.Printf("      Last gift: %s\n", lastGift)
		}
	}

	return nil
}
