package tapebf

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	cp "github.com/jinzhu/copier"
	gorm "gorm.io/gorm"
)

type PersistenceConfig struct {
	Enabled       bool     `toml:"enabled"`
	Name          string   `toml:"name"`
	Path          string   `toml:"path"`
	SQLitePragmas []string `toml:"sqlite_pragmas"`
	SQLiteOptions []string `toml:"sqlite_options"`
}

// RunRecord is one console run in the journal.
type RunRecord struct {
	ID                 uint
	CreatedAt          time.Time
	Program            string
	CellCount          uint64
	Outcome            string `gorm:"index"`
	ExitCode           int
	Error              *string
	Output             []byte `gorm:"type:blob"`
	Memory             []byte `gorm:"type:blob"`
	InstructionCount   uint
	InstructionPointer int
	MemoryPointer      uint64
	LoopDepth          uint
	OutputLength       int
	Expected           *string
	OutputDistance     *int
	OutputSimilarity   *float64
}

func NewRunRecord(result *Result) (*RunRecord, error) {
	record := &RunRecord{
		Program:   result.Program,
		CellCount: result.CellCount,
		Outcome:   result.Outcome(),
		ExitCode:  result.ExitCode,
	}
	if result.Err != nil {
		msg := result.Err.Error()
		record.Error = &msg
	}
	if m := result.Machine; m != nil {
		if err := cp.Copy(record, m.Snapshot()); err != nil {
			return nil, fmt.Errorf("Failed to copy machine snapshot: %w", err)
		}
		record.Output = append([]byte{}, m.Output.Bytes()...)
		record.Memory = append([]byte{}, m.Tape.Cells()...)
	}
	if c := result.Comparison; c != nil {
		record.Expected = &c.Expected
		record.OutputDistance = &c.Distance
		record.OutputSimilarity = &c.Similarity
	}
	return record, nil
}

type Persistence struct {
	Config *PersistenceConfig
	DB     *gorm.DB
}

func NewPersistence(config *PersistenceConfig) (*Persistence, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if len(config.Path) == 0 {
		return nil, fmt.Errorf("Path to database must be defined")
	}

	if len(config.Name) == 0 {
		return nil, fmt.Errorf("Name of database must be defined")
	}

	db, err := gorm.Open(sqlite.Open(dsn(config)), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	p := &Persistence{Config: config, DB: db}
	if err = p.initialize(); err != nil {
		return nil, err
	}

	return p, nil
}

func dsn(config *PersistenceConfig) string {
	var params []string
	for _, prag := range config.SQLitePragmas {
		params = append(params, fmt.Sprintf("_pragma=%s", prag))
	}
	params = append(params, config.SQLiteOptions...)

	path := filepath.Join(config.Path, config.Name)
	if len(params) > 0 {
		path = path + "?" + strings.Join(params, "&")
	}
	return path
}

func (p *Persistence) initialize() error {
	return p.DB.AutoMigrate(&RunRecord{})
}

func (p *Persistence) Shutdown() error {
	sqldb, err := p.DB.DB()
	if err != nil {
		return fmt.Errorf("Failed to retrieve raw DB: %w", err)
	}
	return sqldb.Close()
}

func (p *Persistence) SaveRun(record *RunRecord) (uint, error) {
	if record == nil {
		return 0, fmt.Errorf("RunRecord cannot be nil")
	}

	if result := p.DB.Create(record); result.Error != nil {
		return 0, fmt.Errorf("Failed to call gorm.Create(): %w", result.Error)
	}

	return record.ID, nil
}

// ListRuns returns the newest runs first. A limit of zero lists every run.
func (p *Persistence) ListRuns(limit int) ([]*RunRecord, error) {
	var records []*RunRecord
	q := p.DB.Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if result := q.Find(&records); result.Error != nil {
		return nil, fmt.Errorf("Failed to list runs: %w", result.Error)
	}
	return records, nil
}

type PruneResult struct {
	TotalRuns   int64
	KeptRuns    int64
	DeletedRuns int64
}

// PruneRuns deletes everything but the newest keep runs. A dry run only
// counts what would go.
func (p *Persistence) PruneRuns(keep int, dryRun bool) (*PruneResult, error) {
	result := &PruneResult{}
	if err := p.DB.Model(&RunRecord{}).Count(&result.TotalRuns).Error; err != nil {
		return nil, fmt.Errorf("Failed to count runs: %w", err)
	}

	if int64(keep) >= result.TotalRuns {
		result.KeptRuns = result.TotalRuns
		return result, nil
	}

	var cutoff RunRecord
	if err := p.DB.Order("id desc").Offset(keep).Limit(1).Take(&cutoff).Error; err != nil {
		return nil, fmt.Errorf("Failed to find prune cutoff: %w", err)
	}

	if dryRun {
		if err := p.DB.Model(&RunRecord{}).Where("id <= ?", cutoff.ID).Count(&result.DeletedRuns).Error; err != nil {
			return nil, fmt.Errorf("Failed to count prunable runs: %w", err)
		}
	} else {
		tx := p.DB.Where("id <= ?", cutoff.ID).Delete(&RunRecord{})
		if tx.Error != nil {
			return nil, fmt.Errorf("Failed to prune runs: %w", tx.Error)
		}
		result.DeletedRuns = tx.RowsAffected
	}
	result.KeptRuns = result.TotalRuns - result.DeletedRuns
	return result, nil
}
