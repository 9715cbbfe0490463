package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/luminary-labs/donoriq/internal/adapters/driven/accounting/quickbooks"
	tokens "github.com/luminary-labs/donoriq/internal/adapters/driven/oauth"
	"github.com/luminary-labs/donoriq/internal/adapters/driving/oauth"
	"github.com/luminary-labs/donoriq/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, lifecycle thresholds, the default
organisation, and the accounting connection.

Use subcommands to configure specific settings.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider for semantic donor search.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider for letter drafting.`,
	RunE:  runSettingsLLM,
}

var settingsLifecycleCmd = &cobra.Command{
	Use:   "lifecycle",
	Short: "Configure lifecycle thresholds",
	Long: `Override the donor lifecycle classification thresholds.

Press enter at any prompt to keep the current value. The thresholds are
applied independently; they are not cross-validated against each other.`,
	RunE: runSettingsLifecycle,
}

var settingsOrgCmd = &cobra.Command{
	Use:   "org [org-id]",
	Short: "Set the default organisation",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsOrg,
}

var settingsAccountingCmd = &cobra.Command{
	Use:   "accounting",
	Short: "Configure the accounting connection",
	Long: `Configure the accounting-system connection used for gift sync.
You need the connected app's client credentials. The browser consent
flow fetches the realm id and refresh token for you; alternatively you
can paste both by hand.`,
	RunE: runSettingsAccounting,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsLifecycleCmd)
	settingsCmd.AddCommand(settingsOrgCmd)
	settingsCmd.AddCommand(settingsAccountingCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Organisation]")
	if settings.DefaultOrgID != "" {
		cmd.Printf("  Default org: %s\n", settings.DefaultOrgID)
	} else {
		cmd.Printf("  Default org: (not set)\n")
	}
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		if settings.Embedding.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !settings.Embedding.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status = "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Lifecycle]")
	cmd.Printf("  New donor window: %.0f months\n", settings.Lifecycle.NewDonorMonths)
	cmd.Printf("  Lapsed after: %.0f months\n", settings.Lifecycle.LapsedMonths)
	cmd.Printf("  Lost after: %.0f months\n", settings.Lifecycle.LostMonths)
	cmd.Printf("  Major donor threshold: $%.2f\n", settings.Lifecycle.MajorDonorThreshold)
	cmd.Println()

	cmd.Println("[Accounting]")
	if settings.Accounting.IsConfigured() {
		cmd.Printf("  Realm: %s\n", settings.Accounting.RealmID)
		cmd.Printf("  Client ID: %s\n", maskAPIKey(settings.Accounting.ClientID))
		cmd.Printf("  Status: connected\n")
	} else {
		cmd.Printf("  Status: not connected\n")
	}

	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)
	return configureEmbeddingProvider(cmd, reader)
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)
	return configureLLMProvider(cmd, reader)
}

func runSettingsLifecycle(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	cfg := settings.Lifecycle

	cmd.Println("Lifecycle Thresholds")
	cmd.Println("--------------------")
	cfg.NewDonorMonths = promptFloat(cmd, reader, "New donor window (months)", cfg.NewDonorMonths)
	cfg.LapsedMonths = promptFloat(cmd, reader, "Lapsed after (months)", cfg.LapsedMonths)
	cfg.LostMonths = promptFloat(cmd, reader, "Lost after (months)", cfg.LostMonths)
	cfg.MajorDonorThreshold = promptFloat(cmd, reader, "Major donor threshold ($)", cfg.MajorDonorThreshold)

	if err := settingsService.SetLifecycleConfig(cfg); err != nil {
		return fmt.Errorf("failed to set lifecycle config: %w", err)
	}

	cmd.Println("Lifecycle thresholds saved.")
	return nil
}

func runSettingsOrg(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.SetDefaultOrg(args[0]); err != nil {
		return fmt.Errorf("failed to set default org: %w", err)
	}

	cmd.Printf("Default organisation set to: %s\n", args[0])
	return nil
}

func runSettingsAccounting(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Accounting Connection")
	cmd.Println("---------------------")
	cmd.Print("Client ID: ")
	settings.Accounting.ClientID = readLine(reader)
	cmd.Print("Client secret: ")
	settings.Accounting.ClientSecret = readPassword()
	cmd.Println()

	cmd.Print("Authorise in the browser? [Y/n]: ")
	if answer := strings.ToLower(readLine(reader)); answer == "" || answer == "y" || answer == "yes" {
		if err := connectAccounting(cmd, &settings.Accounting); err != nil {
			return err
		}
	} else {
		cmd.Print("Realm ID: ")
		settings.Accounting.RealmID = readLine(reader)
		cmd.Print("Refresh token: ")
		settings.Accounting.RefreshToken = readPassword()
		cmd.Println()
	}

	if !settings.Accounting.IsConfigured() {
		return errors.New("realm id, client id and refresh token are all required")
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save accounting settings: %w", err)
	}

	cmd.Println("Accounting connection saved. Run 'donoriq sync' to pull gifts.")
	return nil
}

// authorizeURL is the accounting provider's consent page.
const authorizeURL = "https://appcenter.intuit.com/connect/oauth2"

// consentTimeout bounds how long we wait for the browser round-trip.
const consentTimeout = 3 * time.Minute

// connectAccounting runs the browser consent flow: a local callback server
// catches the redirect, which carries both the authorisation code and the
// realm the user picked, then the code is exchanged for a refresh token.
func connectAccounting(cmd *cobra.Command, acct *domain.AccountingSettings) error {
	port, err := oauth.FindAvailablePort(8080, 8180)
	if err != nil {
		return fmt.Errorf("no port for the callback server: %w", err)
	}

	state := oauth.GenerateState()
	server := oauth.NewCallbackServer(port, state)
	if err := server.Start(); err != nil {
		return fmt.Errorf("starting callback server: %w", err)
	}
	defer server.Stop() //nolint:errcheck // best-effort shutdown

	q := url.Values{}
	q.Set("client_id", acct.ClientID)
	q.Set("response_type", "code")
	q.Set("scope", "com.intuit.quickbooks.accounting")
	q.Set("redirect_uri", server.RedirectURI())
	q.Set("state", state)
	consentURL := authorizeURL + "?" + q.Encode()

	if err := oauth.OpenBrowser(consentURL); err != nil {
		cmd.Println("Could not open a browser. Visit this URL to authorise:")
		cmd.Println(consentURL)
	} else {
		cmd.Println("Waiting for authorisation in the browser...")
	}

	grant, err := server.WaitForGrant(consentTimeout)
	if err != nil {
		return fmt.Errorf("authorisation failed: %w", err)
	}

	resp, err := tokens.ExchangeCodeForTokens(context.Background(),
		quickbooks.DefaultTokenURL, acct.ClientID, acct.ClientSecret, grant.Code, server.RedirectURI())
	if err != nil {
		return fmt.Errorf("token exchange failed: %w", err)
	}

	acct.RealmID = grant.RealmID
	acct.RefreshToken = resp.RefreshToken

	cmd.Printf("Authorised realm %s.\n", grant.RealmID)
	return nil
}

//nolint:dupl // Similar to configureLLMProvider but for embeddings - intentional for CLI flow clarity
func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultEmbeddingModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n", selectedProvider.Description(), model)
	cmd.Println("Run 'donoriq reindex' so existing donors get vectors from the new model.")
	return nil
}

//nolint:dupl // Similar to configureEmbeddingProvider but for LLM - intentional for CLI flow clarity
func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func promptFloat(cmd *cobra.Command, reader *bufio.Reader, label string, current float64) float64 {
	cmd.Printf("%s [%.0f]: ", label, current)
	input := readLine(reader)
	if input == "" {
		return current
	}
	val, err := strconv.ParseFloat(input, 64)
	if err != nil || val <= 0 {
		return current
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
