package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var lifecycleCmd = &cobra.Command{
	Use:   "lifecycle [donor-id]",
	Short: "Classify a donor's lifecycle stage",
	Long: `Classifies a donor as new, active, lapsed, or lost from their most
recent gift date, and flags major donors by lifetime giving. Thresholds
are configurable via 'donoriq settings lifecycle'.`,
	Args: cobra.ExactArgs(1),
	RunE: runLifecycle,
}

func init() {
	rootCmd.AddCommand(lifecycleCmd)
}

func runLifecycle(cmd *cobra.Command, args []string) error {
	if insightsService == nil {
		return errors.New("insights service not configured")
	}

	result, err := insightsService.Lifecycle(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("classifying donor failed: %w", err)
	}

	cmd.Printf("Stage: %s\n", result.Stage)
	if result.IsMajorDonor {
		cmd.Println("Major donor: yes")
	} else {
		cmd.Println("Major donor: no")
	}

	return nil
}
