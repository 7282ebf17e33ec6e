package sheets

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// CleanupParams is everything the deferred clear needs, captured by value so
// the background task shares no state with the main pass.
type CleanupParams struct {
	CredentialsFile string
	SpreadsheetID   string
	SheetName       string
	Columns         []string
	Delay           time.Duration
}

// ScheduleDeferredClear starts a background task that sleeps for the
// configured delay, builds its own sheets service, and blanks the transient
// columns from row 2 down. Every failure is logged and swallowed; the main
// pass never hears about it. The returned channel closes when the task
// finishes, for callers that need to hold the process open — goroutines do
// not outlive main.
func ScheduleDeferredClear(params CleanupParams) <-chan struct{} {
	done := make(chan struct{})

	log.Info().
		Dur("delay", params.Delay).
		Strs("columns", params.Columns).
		Msg("Background clear scheduled")

	go func() {
		defer close(done)

		time.Sleep(params.Delay)
		log.Info().
			Strs("columns", params.Columns).
			Msg("Background clear: delay elapsed, re-initializing sheets service")

		// A fresh client on purpose: the main pass and its handle may be
		// long gone by now.
		ctx := context.Background()
		client, err := NewClient(ctx, params.CredentialsFile)
		if err != nil {
			log.Error().Err(err).Msg("Background clear: failed to initialize sheets service")
			return
		}

		ranges := columnRanges(params.SheetName, params.Columns, 2)
		if err := client.BatchClear(ctx, params.SpreadsheetID, ranges); err != nil {
			log.Error().Err(err).Msg("Background clear: failed to clear columns")
			return
		}

		log.Info().
			Strs("columns", params.Columns).
			Msg("Background clear: columns cleared")
	}()

	return done
}
