package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prasetyowira/fightcast/internal/domain/importrun"
	qb "github.com/prasetyowira/fightcast/internal/platform/querybuilder"
)

type ImportRunRepository struct {
	db *sqlx.DB
}

func NewImportRunRepository(db *sqlx.DB) *ImportRunRepository {
	return &ImportRunRepository{db: db}
}

func (r *ImportRunRepository) GetByID(ctx context.Context, id string) (*importrun.Run, error) {
	query, args, err := qb.Select("*").From("import_runs").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get import run query: %w", err)
	}

	var row importRunTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get import run: %w", err)
	}

	return row.toDomain()
}

func (r *ImportRunRepository) ListRecent(ctx context.Context, limit int) ([]importrun.Run, error) {
	builder := qb.Select("*").From("import_runs").
		OrderBy("started_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list import runs query: %w", err)
	}

	var rows []importRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select import runs: %w", err)
	}

	out := make([]importrun.Run, 0, len(rows))
	for _, row := range rows {
		run, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *run)
	}

	return out, nil
}

func (r *ImportRunRepository) Create(ctx context.Context, run *importrun.Run) error {
	model, err := importRunInsertFromDomain(run)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel("import_runs", model, "")
	if err != nil {
		return fmt.Errorf("build insert import run query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert import run: %w", err)
	}

	return nil
}

func (r *ImportRunRepository) Update(ctx context.Context, run *importrun.Run) error {
	errs, err := marshalRunErrors(run.Errors)
	if err != nil {
		return err
	}
	meta, err := marshalRunMetadata(run.Metadata)
	if err != nil {
		return err
	}

	query, args, err := qb.Update("import_runs").
		Set("status", run.Status).
		Set("records_processed", run.RecordsProcessed).
		Set("records_created", run.RecordsCreated).
		Set("records_updated", run.RecordsUpdated).
		Set("records_failed", run.RecordsFailed).
		Set("errors", errs).
		Set("metadata", meta).
		Set("completed_at", run.CompletedAt).
		Where(qb.Eq("public_id", run.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update import run query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update import run: %w", err)
	}

	return nil
}
