package tapebf

import (
	"database/sql"
	"reflect"
	"testing"

	_ "github.com/glebarez/go-sqlite"
)

const testSchema = `CREATE TABLE run_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	outcome TEXT,
	instruction_count INTEGER,
	output_length INTEGER
)`

func setupMetricsTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory DB: %v", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

func insertRun(t *testing.T, db *sql.DB, outcome string, instructions, output int) {
	if _, err := db.Exec(`INSERT INTO run_records (outcome, instruction_count, output_length) VALUES (?, ?, ?)`, outcome, instructions, output); err != nil {
		t.Fatalf("Failed to insert run: %v", err)
	}
}

func TestQueryRunMetricsEmpty(t *testing.T) {
	db := setupMetricsTestDB(t)
	defer db.Close()

	m, err := QueryRunMetrics(db)
	if err != nil {
		t.Fatalf("QueryRunMetrics returned error: %v", err)
	}
	if m.TotalRuns != 0 || m.AvgInstructionCount != 0 || len(m.Outcomes) != 0 {
		t.Errorf("Expected empty metrics, got %+v", m)
	}
}

func TestQueryRunMetricsWithRuns(t *testing.T) {
	db := setupMetricsTestDB(t)
	defer db.Close()

	insertRun(t, db, OutcomeSuccess, 10, 3)
	insertRun(t, db, OutcomeSuccess, 30, 7)
	insertRun(t, db, OutcomeInstruction, 20, 0)
	insertRun(t, db, OutcomeParse, 0, 0)

	m, err := QueryRunMetrics(db)
	if err != nil {
		t.Fatalf("QueryRunMetrics returned error: %v", err)
	}

	if m.TotalRuns != 4 {
		t.Errorf("Expected 4 runs, got %d", m.TotalRuns)
	}
	if m.AvgInstructionCount != 15 {
		t.Errorf("Expected average 15 instructions, got %f", m.AvgInstructionCount)
	}
	if m.MaxInstructionCount != 30 || m.MaxOutputLength != 7 {
		t.Errorf("Expected max 30 instructions and 7 output bytes, got %d and %d", m.MaxInstructionCount, m.MaxOutputLength)
	}

	want := []string{OutcomeInstruction, OutcomeParse, OutcomeSuccess}
	if !reflect.DeepEqual(m.OutcomeNames(), want) {
		t.Errorf("Outcome names %v are not %v", m.OutcomeNames(), want)
	}
	if m.Outcomes[OutcomeSuccess] != 2 {
		t.Errorf("Expected 2 successful runs, got %d", m.Outcomes[OutcomeSuccess])
	}
}
