package sheets

import (
	"testing"
	"time"
)

func TestScheduleDeferredClearSwallowsSetupFailure(t *testing.T) {
	// A credentials file that does not exist: the task must log, give up,
	// and close the done channel without anything escaping to the caller.
	done := ScheduleDeferredClear(CleanupParams{
		CredentialsFile: "testdata/nonexistent-credentials.json",
		SpreadsheetID:   "sheet-id",
		SheetName:       "Print Jobs",
		Columns:         []string{"D", "E"},
		Delay:           10 * time.Millisecond,
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("deferred clear did not finish")
	}
}

func TestScheduleDeferredClearDoesNotBlockCaller(t *testing.T) {
	start := time.Now()
	ScheduleDeferredClear(CleanupParams{
		CredentialsFile: "testdata/nonexistent-credentials.json",
		SpreadsheetID:   "sheet-id",
		SheetName:       "Print Jobs",
		Columns:         []string{"D"},
		Delay:           2 * time.Second,
	})
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("ScheduleDeferredClear blocked for %v", elapsed)
	}
}
