package main

import (
	"context"
	"fmt"
	"os"

	"fiery_print_jobs/internal/app"
	"fiery_print_jobs/internal/config"
	"fiery_print_jobs/internal/engine"
	"fiery_print_jobs/internal/fiery"
	"fiery_print_jobs/internal/notifications"
	"fiery_print_jobs/internal/retry"
	"fiery_print_jobs/internal/sheets"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fiery_print_jobs <printer-key>",
	Short: "Reconcile pending print requests from a Google Sheet against a Fiery held queue",
	Long: `Reads pending print-job requests from a Google Sheet, matches them against
the jobs held on the selected Fiery controller, applies the requested copy
count, releases matched jobs to print, and writes a per-row result back to
the sheet. A background task clears the transient result columns after a
delay so the sheet is reset before the next run.

The printer key selects a controller configured through FIERY_<KEY>_IP,
FIERY_<KEY>_USERNAME, FIERY_<KEY>_PASSWORD and FIERY_<KEY>_API_KEY.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func main() {
	setupEnvironment()

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Run aborted")
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := app.Load(args[0])
	if err != nil {
		return err
	}
	log.Info().
		Str("printer", cfg.Printer.Key).
		Str("ip", cfg.Printer.IP).
		Str("sheet", cfg.SheetName).
		Msg("Starting Fiery print run")

	sheetsClient, err := sheets.NewClient(ctx, cfg.CredentialsFile)
	if err != nil {
		return fmt.Errorf("failed to create sheets client: %w", err)
	}
	source := sheets.NewSource(sheetsClient, cfg.SpreadsheetID, cfg.SheetName, cfg.StatusColumn, cfg.NotesColumn)

	resilience := config.DefaultResilienceConfig

	data, err := retry.WithRetry(ctx, resilience.SheetFetch, func(ctx context.Context) (*sheets.SheetData, error) {
		return source.FetchRows(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to fetch sheet rows: %w", err)
	}

	// Stale results from the previous run must be gone before any print
	// action; a failed clear aborts the run.
	if _, err := retry.WithRetry(ctx, resilience.SheetClear, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, source.ClearReportColumns(ctx)
	}); err != nil {
		return fmt.Errorf("failed to clear report columns: %w", err)
	}

	fieryClient := fiery.NewClient(cfg.Printer.IP, cfg.Printer.Username, cfg.Printer.Password, cfg.Printer.APIKey)
	if _, err := retry.WithRetry(ctx, resilience.FieryLogin, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fieryClient.Login(ctx)
	}); err != nil {
		return fmt.Errorf("failed to log into Fiery API: %w", err)
	}

	snapshot := fetchSnapshot(ctx, fieryClient)

	eng := engine.New(fieryClient, source)
	summary := eng.Run(ctx, data.Rows, snapshot)

	initializeNotificationClient().NotifyRunSummary(ctx, cfg.Printer.Key, summary)

	done := sheets.ScheduleDeferredClear(sheets.CleanupParams{
		CredentialsFile: cfg.CredentialsFile,
		SpreadsheetID:   cfg.SpreadsheetID,
		SheetName:       cfg.SheetName,
		Columns:         cfg.CleanupColumns,
		Delay:           cfg.CleanupDelay,
	})

	// The reconciliation pass is finished; only the process lingers so the
	// background clear survives, since goroutines die with main.
	log.Info().Msg("Main pass complete, background clear pending")
	<-done
	return nil
}

// fetchSnapshot lists the held queue once. A listing failure is not fatal:
// the run proceeds with an empty snapshot and every row reports Not Found,
// matching the sheet's diagnostic role.
func fetchSnapshot(ctx context.Context, client *fiery.Client) []engine.QueueJob {
	held, err := client.ListHeldJobs(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to retrieve held jobs, proceeding with empty queue")
		return nil
	}
	snapshot := make([]engine.QueueJob, 0, len(held))
	for _, job := range held {
		snapshot = append(snapshot, engine.QueueJob{ID: job.ID.String(), RawTitle: job.Title})
	}
	return snapshot
}

func initializeNotificationClient() *notifications.Client {
	enabled := getEnvWithDefault("NTFY_ENABLED", "false") == "true"
	baseURL := getEnvWithDefault("NTFY_URL", "https://ntfy.sh")
	topic := getEnvWithDefault("NTFY_TOPIC", "fiery-print-jobs")

	log.Debug().
		Bool("enabled", enabled).
		Str("base_url", baseURL).
		Str("topic", topic).
		Msg("Initializing notification client")

	return notifications.NewClient(baseURL, topic, enabled)
}
