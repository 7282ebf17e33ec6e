package engine

import (
	"fmt"
	"strings"
)

const (
	StatusPrinted        = "Printed"
	StatusError          = "Error"
	StatusPartialFailure = "Error (Partial/Full Failure)"
	StatusNotFound       = "Not Found"
)

// StatusFor maps a row outcome to the (status, notes) pair written back to
// the sheet. Skipped rows produce no write at all.
func StatusFor(o Outcome) (status, notes string, write bool) {
	switch o.Kind {
	case OutcomeSkipped:
		return "", "", false
	case OutcomeInvalidQuantity:
		return StatusError, fmt.Sprintf("Invalid 'Copies' value '%s'", strings.TrimSpace(o.Row.Copies)), true
	case OutcomeNotFound:
		return StatusNotFound, fmt.Sprintf("No matching Fiery jobs found for '%s'", strings.TrimSpace(o.Row.Title)), true
	case OutcomeProcessed:
		status = StatusPrinted
		if !o.AllSucceeded {
			status = StatusPartialFailure
		}
		entries := make([]string, 0, len(o.Jobs))
		for _, job := range o.Jobs {
			if job.Err != nil {
				entries = append(entries, fmt.Sprintf("Failed to process '%s'.", job.Title))
			} else {
				entries = append(entries, fmt.Sprintf("'%s' Qty: %d", job.Title, job.Copies))
			}
		}
		notes = fmt.Sprintf("Processed %d jobs: %s", len(o.Jobs), strings.Join(entries, "; "))
		return status, notes, true
	}
	return "", "", false
}
