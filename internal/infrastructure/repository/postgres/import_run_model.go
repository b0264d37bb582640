package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/prasetyowira/fightcast/internal/domain/importrun"
)

type importRunTableModel struct {
	ID               int64      `db:"id"`
	PublicID         string     `db:"public_id"`
	Source           string     `db:"source"`
	ImportType       string     `db:"import_type"`
	Status           string     `db:"status"`
	RecordsProcessed int        `db:"records_processed"`
	RecordsCreated   int        `db:"records_created"`
	RecordsUpdated   int        `db:"records_updated"`
	RecordsFailed    int        `db:"records_failed"`
	Errors           []byte     `db:"errors"`
	Metadata         []byte     `db:"metadata"`
	StartedAt        time.Time  `db:"started_at"`
	CompletedAt      *time.Time `db:"completed_at"`
}

type importRunInsertModel struct {
	PublicID         string     `db:"public_id"`
	Source           string     `db:"source"`
	ImportType       string     `db:"import_type"`
	Status           string     `db:"status"`
	RecordsProcessed int        `db:"records_processed"`
	RecordsCreated   int        `db:"records_created"`
	RecordsUpdated   int        `db:"records_updated"`
	RecordsFailed    int        `db:"records_failed"`
	Errors           []byte     `db:"errors"`
	Metadata         []byte     `db:"metadata"`
	StartedAt        time.Time  `db:"started_at"`
	CompletedAt      *time.Time `db:"completed_at"`
}

func importRunInsertFromDomain(run *importrun.Run) (importRunInsertModel, error) {
	errs, err := marshalRunErrors(run.Errors)
	if err != nil {
		return importRunInsertModel{}, err
	}
	meta, err := marshalRunMetadata(run.Metadata)
	if err != nil {
		return importRunInsertModel{}, err
	}

	return importRunInsertModel{
		PublicID:         run.ID,
		Source:           run.Source,
		ImportType:       run.ImportType,
		Status:           run.Status,
		RecordsProcessed: run.RecordsProcessed,
		RecordsCreated:   run.RecordsCreated,
		RecordsUpdated:   run.RecordsUpdated,
		RecordsFailed:    run.RecordsFailed,
		Errors:           errs,
		Metadata:         meta,
		StartedAt:        run.StartedAt,
		CompletedAt:      run.CompletedAt,
	}, nil
}

func (m importRunTableModel) toDomain() (*importrun.Run, error) {
	run := &importrun.Run{
		ID:               m.PublicID,
		Source:           m.Source,
		ImportType:       m.ImportType,
		Status:           m.Status,
		RecordsProcessed: m.RecordsProcessed,
		RecordsCreated:   m.RecordsCreated,
		RecordsUpdated:   m.RecordsUpdated,
		RecordsFailed:    m.RecordsFailed,
		StartedAt:        m.StartedAt,
		CompletedAt:      m.CompletedAt,
	}

	if len(m.Errors) > 0 {
		if err := sonic.Unmarshal(m.Errors, &run.Errors); err != nil {
			return nil, fmt.Errorf("unmarshal import run errors: %w", err)
		}
	}
	if len(m.Metadata) > 0 {
		if err := sonic.Unmarshal(m.Metadata, &run.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal import run metadata: %w", err)
		}
	}

	return run, nil
}

func marshalRunErrors(errs []string) ([]byte, error) {
	if len(errs) == 0 {
		return nil, nil
	}
	out, err := sonic.Marshal(errs)
	if err != nil {
		return nil, fmt.Errorf("marshal import run errors: %w", err)
	}
	return out, nil
}

func marshalRunMetadata(meta map[string]any) ([]byte, error) {
	if len(meta) == 0 {
		return nil, nil
	}
	out, err := sonic.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal import run metadata: %w", err)
	}
	return out, nil
}
