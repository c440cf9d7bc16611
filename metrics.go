package tapebf

import (
	"database/sql"
	"fmt"
	"sort"
)

// RunMetrics holds aggregates over the run journal.
type RunMetrics struct {
	TotalRuns           uint
	Outcomes            map[string]uint
	AvgInstructionCount float64
	MaxInstructionCount uint
	MaxOutputLength     int
}

// OutcomeNames returns the recorded outcomes in a stable order.
func (m *RunMetrics) OutcomeNames() []string {
	names := make([]string, 0, len(m.Outcomes))
	for name := range m.Outcomes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *Persistence) QueryMetrics() (*RunMetrics, error) {
	db, err := p.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("Failed to retrieve raw DB: %w", err)
	}
	return QueryRunMetrics(db)
}

func QueryRunMetrics(db *sql.DB) (*RunMetrics, error) {
	rows, err := db.Query(`
		SELECT outcome,
			COUNT(*),
			COALESCE(SUM(instruction_count), 0),
			COALESCE(MAX(instruction_count), 0),
			COALESCE(MAX(output_length), 0)
		FROM run_records
		GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("Failed to query run metrics: %w", err)
	}
	defer rows.Close()

	m := &RunMetrics{Outcomes: map[string]uint{}}
	var totalInstructions uint64

	for rows.Next() {
		var (
			outcome   string
			count     uint
			sum       uint64
			maxCount  uint
			maxOutput int
		)
		if err := rows.Scan(&outcome, &count, &sum, &maxCount, &maxOutput); err != nil {
			return nil, fmt.Errorf("Failed to scan run metrics: %w", err)
		}
		m.Outcomes[outcome] = count
		m.TotalRuns += count
		totalInstructions += sum
		if maxCount > m.MaxInstructionCount {
			m.MaxInstructionCount = maxCount
		}
		if maxOutput > m.MaxOutputLength {
			m.MaxOutputLength = maxOutput
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Failed to read run metrics: %w", err)
	}

	if m.TotalRuns > 0 {
		m.AvgInstructionCount = float64(totalInstructions) / float64(m.TotalRuns)
	}

	return m, nil
}
