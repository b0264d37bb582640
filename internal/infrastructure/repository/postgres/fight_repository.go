package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prasetyowira/fightcast/internal/domain/fight"
	qb "github.com/prasetyowira/fightcast/internal/platform/querybuilder"
)

const fightCompletedExpr = "(f.winner_public_id <> '' OR f.is_draw OR f.is_no_contest)"

type FightRepository struct {
	db queryer
}

func NewFightRepository(db *sqlx.DB) *FightRepository {
	return &FightRepository{db: db}
}

func (r *FightRepository) GetByID(ctx context.Context, id string) (*fight.Fight, error) {
	return r.getOne(ctx, qb.Eq("public_id", id))
}

// GetByEventAndFighters matches the pair in either corner order.
func (r *FightRepository) GetByEventAndFighters(ctx context.Context, eventID, fighter1ID, fighter2ID string) (*fight.Fight, error) {
	return r.getOne(ctx,
		qb.Eq("event_public_id", eventID),
		qb.Expr("((fighter1_public_id = ? AND fighter2_public_id = ?) OR (fighter1_public_id = ? AND fighter2_public_id = ?))",
			fighter1ID, fighter2ID, fighter2ID, fighter1ID),
	)
}

func (r *FightRepository) getOne(ctx context.Context, conds ...qb.Condition) (*fight.Fight, error) {
	query, args, err := qb.Select("*").From("fights").
		Where(conds...).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get fight query: %w", err)
	}

	var row fightTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fight: %w", err)
	}

	return row.toDomain()
}

func (r *FightRepository) ListByEvent(ctx context.Context, eventID string) ([]fight.Fight, error) {
	query, args, err := qb.Select("*").From("fights").
		Where(qb.Eq("event_public_id", eventID)).
		OrderBy("fight_order", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list fights by event query: %w", err)
	}

	return r.selectFights(ctx, query, args)
}

func (r *FightRepository) ListScheduledByEvent(ctx context.Context, eventID string) ([]fight.Fight, error) {
	query, args, err := qb.Select("*").From("fights f").
		Where(
			qb.Eq("event_public_id", eventID),
			qb.Expr("NOT "+fightCompletedExpr),
		).
		OrderBy("fight_order", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scheduled fights query: %w", err)
	}

	return r.selectFights(ctx, query, args)
}

func (r *FightRepository) selectFights(ctx context.Context, query string, args []any) ([]fight.Fight, error) {
	var rows []fightTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fights: %w", err)
	}

	out := make([]fight.Fight, 0, len(rows))
	for _, row := range rows {
		f, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}

	return out, nil
}

func (r *FightRepository) ListCompletedByFighterBefore(ctx context.Context, fighterID string, before time.Time) ([]fight.Detail, error) {
	query, args, err := r.detailQuery(
		0,
		qb.Expr("(f.fighter1_public_id = ? OR f.fighter2_public_id = ?)", fighterID, fighterID),
		qb.Expr(fightCompletedExpr),
		qb.Expr("e.event_date < ?", before),
	)
	if err != nil {
		return nil, fmt.Errorf("build fighter history query: %w", err)
	}

	return r.selectDetails(ctx, query, args)
}

func (r *FightRepository) ListCompleted(ctx context.Context, limit int) ([]fight.Detail, error) {
	query, args, err := r.detailQuery(limit, qb.Expr(fightCompletedExpr))
	if err != nil {
		return nil, fmt.Errorf("build completed fights query: %w", err)
	}

	return r.selectDetails(ctx, query, args)
}

func (r *FightRepository) ListScheduled(ctx context.Context, limit int) ([]fight.Detail, error) {
	query, args, err := r.detailQuery(limit, qb.Expr("NOT "+fightCompletedExpr))
	if err != nil {
		return nil, fmt.Errorf("build scheduled fights query: %w", err)
	}

	return r.selectDetails(ctx, query, args)
}

func (r *FightRepository) detailQuery(limit int, conds ...qb.Condition) (string, []any, error) {
	builder := qb.Select("f.*", "e.event_date").
		From("fights f JOIN events e ON e.public_id = f.event_public_id").
		Where(conds...).
		OrderBy("e.event_date", "f.id")
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	return builder.ToSQL()
}

func (r *FightRepository) selectDetails(ctx context.Context, query string, args []any) ([]fight.Detail, error) {
	var rows []fightDetailModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fight details: %w", err)
	}

	out := make([]fight.Detail, 0, len(rows))
	for _, row := range rows {
		detail, err := row.toDetail()
		if err != nil {
			return nil, err
		}
		out = append(out, detail)
	}

	return out, nil
}

func (r *FightRepository) Create(ctx context.Context, f *fight.Fight) error {
	model, err := fightInsertFromDomain(f)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel("fights", model, "")
	if err != nil {
		return fmt.Errorf("build insert fight query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert fight: %w", err)
	}

	return nil
}

func (r *FightRepository) Update(ctx context.Context, f *fight.Fight) error {
	stats1, err := marshalStats(f.Fighter1Stats)
	if err != nil {
		return fmt.Errorf("encode fighter 1 stats: %w", err)
	}
	stats2, err := marshalStats(f.Fighter2Stats)
	if err != nil {
		return fmt.Errorf("encode fighter 2 stats: %w", err)
	}

	query, args, err := qb.Update("fights").
		Set("weight_class", f.WeightClass).
		Set("is_title_fight", f.IsTitleFight).
		Set("is_main_event", f.IsMainEvent).
		Set("scheduled_rounds", f.ScheduledRounds).
		Set("fight_order", f.FightOrder).
		Set("winner_public_id", f.WinnerID).
		Set("result_method", f.ResultMethod).
		Set("result_method_detail", f.ResultMethodDetail).
		Set("ending_round", nullInt(f.EndingRound)).
		Set("ending_time", f.EndingTime).
		Set("is_no_contest", f.IsNoContest).
		Set("is_draw", f.IsDraw).
		Set("fighter1_stats", stats1).
		Set("fighter2_stats", stats2).
		Set("updated_at", f.UpdatedAt).
		Where(qb.Eq("public_id", f.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update fight query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update fight: %w", err)
	}

	return nil
}
