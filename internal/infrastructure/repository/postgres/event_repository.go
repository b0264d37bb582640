package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prasetyowira/fightcast/internal/domain/event"
	qb "github.com/prasetyowira/fightcast/internal/platform/querybuilder"
)

type EventRepository struct {
	db queryer
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	return r.getOne(ctx, qb.Eq("public_id", id))
}

// GetByNameAndDate matches the name case-insensitively and the date on the
// calendar day, since sources disagree on event start times.
func (r *EventRepository) GetByNameAndDate(ctx context.Context, name string, date time.Time) (*event.Event, error) {
	return r.getOne(ctx,
		qb.Expr("lower(name) = lower(?)", name),
		qb.Expr("event_date::date = ?::date", date),
	)
}

func (r *EventRepository) getOne(ctx context.Context, conds ...qb.Condition) (*event.Event, error) {
	query, args, err := qb.Select("*").From("events").
		Where(conds...).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get event query: %w", err)
	}

	var row eventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	return row.toDomain(), nil
}

func (r *EventRepository) ListUpcoming(ctx context.Context, now time.Time) ([]event.Event, error) {
	query, args, err := qb.Select("*").From("events").
		Where(
			qb.Eq("is_completed", false),
			qb.Expr("event_date > ?", now),
		).
		OrderBy("event_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list upcoming events query: %w", err)
	}

	return r.selectEvents(ctx, query, args)
}

func (r *EventRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]event.Event, error) {
	query, args, err := qb.Select("*").From("events").
		Where(
			qb.Expr("event_date >= ?", start),
			qb.Expr("event_date <= ?", end),
		).
		OrderBy("event_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list events by range query: %w", err)
	}

	return r.selectEvents(ctx, query, args)
}

func (r *EventRepository) selectEvents(ctx context.Context, query string, args []any) ([]event.Event, error) {
	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}

	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row.toDomain())
	}

	return out, nil
}

func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	query, args, err := qb.InsertModel("events", eventInsertFromDomain(e), "")
	if err != nil {
		return fmt.Errorf("build insert event query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

func (r *EventRepository) Update(ctx context.Context, e *event.Event) error {
	query, args, err := qb.Update("events").
		Set("name", e.Name).
		Set("event_date", e.EventDate).
		Set("venue", e.Venue).
		Set("city", e.City).
		Set("state", e.State).
		Set("country", e.Country).
		Set("event_type", e.EventType).
		Set("is_completed", e.IsCompleted).
		Set("ufc_id", e.UFCID).
		Set("espn_id", e.ESPNID).
		Set("updated_at", e.UpdatedAt).
		Where(qb.Eq("public_id", e.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update event query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	return nil
}
