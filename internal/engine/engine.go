package engine

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Row is one pending request parsed from the spreadsheet. Index is the
// 0-based position among data rows (header excluded).
type Row struct {
	Index  int
	Title  string
	Copies string
}

// OutcomeKind is the terminal state a row reaches during a run.
type OutcomeKind int

const (
	OutcomeSkipped OutcomeKind = iota
	OutcomeInvalidQuantity
	OutcomeNotFound
	OutcomeProcessed
)

// JobResult records one print attempt against a matched queue job.
type JobResult struct {
	Title  string
	Copies int
	Err    error
}

// Outcome is the terminal result for a single row.
type Outcome struct {
	Kind         OutcomeKind
	Row          Row
	AllSucceeded bool
	Jobs         []JobResult
}

// PrintAction is the device-side collaborator invoked per matched job.
type PrintAction interface {
	SetCopyCount(ctx context.Context, jobID string, copies int) error
	ReleaseToPrint(ctx context.Context, jobID string) error
}

// Reporter writes a row's status and notes back to the data source.
type Reporter interface {
	WriteRowResult(ctx context.Context, rowIndex int, status, notes string) error
}

// Summary aggregates row outcomes across one run.
type Summary struct {
	Printed     int
	Failed      int
	NotFound    int
	InvalidQty  int
	Skipped     int
	ReportFails int
}

// ProcessRow drives one row through the outcome state machine: skip on empty
// fields, match against the snapshot, validate the copy count, then attempt
// every matched job. A failed job marks the row partially failed but never
// stops the remaining jobs.
func ProcessRow(ctx context.Context, row Row, snapshot []QueueJob, printer PrintAction) Outcome {
	title := strings.TrimSpace(row.Title)
	copies := strings.TrimSpace(row.Copies)

	if title == "" || copies == "" {
		log.Info().Int("row", row.Index+2).Msg("Skipping row: missing title or copies (likely cleared)")
		return Outcome{Kind: OutcomeSkipped, Row: row}
	}

	key := Normalize(title)
	log.Info().
		Int("row", row.Index+2).
		Str("title", title).
		Str("copies", copies).
		Str("key", key).
		Msg("Processing spreadsheet entry")

	matched := Match(key, snapshot)
	if len(matched) == 0 {
		log.Info().
			Int("row", row.Index+2).
			Str("title", title).
			Str("key", key).
			Msg("No held jobs matching entry")
		return Outcome{Kind: OutcomeNotFound, Row: row}
	}

	// Quantity is validated only after a match is found, so a bad copy
	// count on a matched row reports as an error rather than not-found.
	numCopies, err := strconv.Atoi(copies)
	if err != nil || numCopies <= 0 {
		log.Error().
			Int("row", row.Index+2).
			Str("title", title).
			Str("copies", copies).
			Msg("Invalid copies value, must be a positive number")
		return Outcome{Kind: OutcomeInvalidQuantity, Row: row}
	}

	outcome := Outcome{Kind: OutcomeProcessed, Row: row, AllSucceeded: true}
	for _, job := range matched {
		result := JobResult{Title: strings.TrimSpace(job.RawTitle), Copies: numCopies}
		result.Err = printJob(ctx, printer, job.ID, numCopies)
		if result.Err != nil {
			outcome.AllSucceeded = false
			log.Error().
				Err(result.Err).
				Str("job_id", job.ID).
				Str("job_title", result.Title).
				Msg("Failed to process matched job")
		} else {
			log.Info().
				Str("job_id", job.ID).
				Str("job_title", result.Title).
				Int("copies", numCopies).
				Msg("Matched job sent to print")
		}
		outcome.Jobs = append(outcome.Jobs, result)
	}
	return outcome
}

// printJob performs both device calls for one matched job; both must succeed.
func printJob(ctx context.Context, printer PrintAction, jobID string, copies int) error {
	if err := printer.SetCopyCount(ctx, jobID, copies); err != nil {
		return err
	}
	return printer.ReleaseToPrint(ctx, jobID)
}

// Engine runs the reconciliation pass against a single queue snapshot.
type Engine struct {
	Printer  PrintAction
	Reporter Reporter
}

func New(printer PrintAction, reporter Reporter) *Engine {
	return &Engine{Printer: printer, Reporter: reporter}
}

// Run processes rows one at a time, writing each row's result before moving
// on. Report-write failures are logged and never interrupt the pass; nothing
// a single row does can abort its siblings.
func (e *Engine) Run(ctx context.Context, rows []Row, snapshot []QueueJob) Summary {
	log.Debug().
		Int("rows", len(rows)).
		Int("held_jobs", len(snapshot)).
		Msg("Starting reconciliation pass")

	var summary Summary
	for _, row := range rows {
		outcome := ProcessRow(ctx, row, snapshot, e.Printer)
		summary.count(outcome)

		status, notes, write := StatusFor(outcome)
		if !write {
			continue
		}
		if err := e.Reporter.WriteRowResult(ctx, row.Index, status, notes); err != nil {
			summary.ReportFails++
			log.Error().
				Err(err).
				Int("row", row.Index+2).
				Str("status", status).
				Msg("Failed to write row result")
		}
	}

	log.Info().
		Int("printed", summary.Printed).
		Int("failed", summary.Failed).
		Int("not_found", summary.NotFound).
		Int("invalid_qty", summary.InvalidQty).
		Int("skipped", summary.Skipped).
		Int("report_failures", summary.ReportFails).
		Msg("Reconciliation pass complete")
	return summary
}

func (s *Summary) count(o Outcome) {
	switch o.Kind {
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeInvalidQuantity:
		s.InvalidQty++
	case OutcomeNotFound:
		s.NotFound++
	case OutcomeProcessed:
		if o.AllSucceeded {
			s.Printed++
		} else {
			s.Failed++
		}
	}
}
