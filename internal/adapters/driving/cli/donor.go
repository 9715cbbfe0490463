package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luminary-labs/donoriq/internal/core/domain"
)

var (
	donorEmail   string
	donorAddress string
	donorCity    string
	donorState   string
	donorNotes   string

	logKind       string
	timelineLimit int
)

var donorCmd = &cobra.Command{
	Use:   "donor",
	Short: "Manage donor records",
	Long:  `Add donors, inspect their records, and log touchpoints.`,
}

var donorAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a donor",
	Args:  cobra.ExactArgs(1),
	RunE:  runDonorAdd,
}

var donorShowCmd = &cobra.Command{
	Use:   "show [donor-id]",
	Short: "Show a donor record",
	Args:  cobra.ExactArgs(1),
	RunE:  runDonorShow,
}

var donorLogCmd = &cobra.Command{
	Use:   "log [donor-id] [summary]",
	Short: "Log a touchpoint on a donor's timeline",
	Args:  cobra.ExactArgs(2),
	RunE:  runDonorLog,
}

var donorTimelineCmd = &cobra.Command{
	Use:   "timeline [donor-id]",
	Short: "Show a donor's recent gifts and touchpoints",
	Args:  cobra.ExactArgs(1),
	RunE:  runDonorTimeline,
}

func init() {
	donorAddCmd.Flags().StringVar(&donorEmail, "email", "", "contact email")
	donorAddCmd.Flags().StringVar(&donorAddress, "address", "", "street address")
	donorAddCmd.Flags().StringVar(&donorCity, "city", "", "city")
	donorAddCmd.Flags().StringVar(&donorState, "state", "", "state")
	donorAddCmd.Flags().StringVar(&donorNotes, "notes", "", "relationship notes")
	addOrgFlag(donorAddCmd)

	donorLogCmd.Flags().StringVarP(&logKind, "kind", "k", "call", "touchpoint kind (letter, email, call)")
	donorTimelineCmd.Flags().IntVarP(&timelineLimit, "limit", "n", 20, "maximum entries per section")

	donorCmd.AddCommand(donorAddCmd)
	donorCmd.AddCommand(donorShowCmd)
	donorCmd.AddCommand(donorLogCmd)
	donorCmd.AddCommand(donorTimelineCmd)
	rootCmd.AddCommand(donorCmd)
}

func runDonorAdd(cmd *cobra.Command, args []string) error {
	if donorDirectory == nil {
		return errors.New("donor service not configured")
	}

	orgID, err := resolveOrg(cmd)
	if err != nil {
		return err
	}

	donor := &domain.Donor{
		OrgID:   orgID,
		Name:    args[0],
		Email:   donorEmail,
		Address: donorAddress,
		City:    donorCity,
		State:   donorState,
		Notes:   donorNotes,
	}
	if err := donorDirectory.Add(context.Background(), donor); err != nil {
		return fmt.Errorf("adding donor failed: %w", err)
	}

	cmd.Printf("Added donor %s (%s)\n", donor.Name, donor.ID)

	return nil
}

func runDonorShow(cmd *cobra.Command, args []string) error {
	if donorDirectory == nil {
		return errors.New("donor service not configured")
	}

	donor, err := donorDirectory.Get(context.Background(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no donor with id %s", args[0])
		}
		return fmt.Errorf("getting donor failed: %w", err)
	}

	cmd.Printf("Name:     %s\n", donor.Name)
	cmd.Printf("Org:      %s\n", donor.OrgID)
	if donor.Email != "" {
		cmd.Printf("Email:    %s\n", donor.Email)
	}
	if donor.Address != "" || donor.City != "" || donor.State != "" {
		cmd.Printf("Address:  %s\n", joinAddress(donor.Address, donor.City, donor.State))
	}
	if donor.LifetimeValue != nil {
		cmd.Printf("Lifetime: $%.2f\n", *donor.LifetimeValue)
	}
	if donor.LastGiftDate != "" {
		cmd.Printf("Last gift: %s\n", donor.LastGiftDate)
	}
	if donor.Notes != "" {
		cmd.Printf("Notes:    %s\n", donor.Notes)
	}

	return nil
}

func runDonorLog(cmd *cobra.Command, args []string) error {
	if donorDirectory == nil {
		return errors.New("donor service not configured")
	}

	kind := domain.InteractionKind(logKind)
	switch kind {
	case domain.InteractionLetter, domain.InteractionEmail, domain.InteractionCall:
	default:
		return fmt.Errorf("unknown kind %q (expected letter, email or call)", logKind)
	}

	if err := donorDirectory.LogInteraction(context.Background(), args[0], kind, args[1]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no donor with id %s", args[0])
		}
		return fmt.Errorf("logging interaction failed: %w", err)
	}

	cmd.Println("Logged.")

	return nil
}

func runDonorTimeline(cmd *cobra.Command, args []string) error {
	if donorDirectory == nil {
		return errors.New("donor service not configured")
	}

	gifts, interactions, err := donorDirectory.Timeline(context.Background(), args[0], timelineLimit)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no donor with id %s", args[0])
		}
		return fmt.Errorf("getting timeline failed: %w", err)
	}

	cmd.Println("Gifts:")
	if len(gifts) == 0 {
		cmd.Println("  (none)")
	}
	for _, g := range gifts {
		cmd.Printf("  %s  $%.2f  (%s)\n", g.GiftDate, g.Amount, g.Source)
	}

	cmd.Println("Touchpoints:")
	if len(interactions) == 0 {
		cmd.Println("  (none)")
	}
	for _, in := range interactions {
		cmd.Printf("  %s  [%s] %s\n", in.CreatedAt.Format("2006-01-02"), in.Kind, in.Summary)
	}

	return nil
}

func joinAddress(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}
