package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prasetyowira/fightcast/internal/domain/fighter"
	qb "github.com/prasetyowira/fightcast/internal/platform/querybuilder"
)

type FighterRepository struct {
	db queryer
}

func NewFighterRepository(db *sqlx.DB) *FighterRepository {
	return &FighterRepository{db: db}
}

func (r *FighterRepository) GetByID(ctx context.Context, id string) (*fighter.Fighter, error) {
	return r.getOne(ctx, qb.Eq("public_id", id))
}

func (r *FighterRepository) GetByNormalizedName(ctx context.Context, normalizedName string) (*fighter.Fighter, error) {
	return r.getOne(ctx, qb.Eq("normalized_name", normalizedName))
}

func (r *FighterRepository) getOne(ctx context.Context, cond qb.Condition) (*fighter.Fighter, error) {
	query, args, err := qb.Select("*").From("fighters").
		Where(cond).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get fighter query: %w", err)
	}

	var row fighterTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fighter: %w", err)
	}

	return row.toDomain(), nil
}

func (r *FighterRepository) List(ctx context.Context) ([]fighter.Fighter, error) {
	query, args, err := qb.Select("*").From("fighters").
		OrderBy("normalized_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list fighters query: %w", err)
	}

	var rows []fighterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fighters: %w", err)
	}

	out := make([]fighter.Fighter, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row.toDomain())
	}

	return out, nil
}

func (r *FighterRepository) Create(ctx context.Context, f *fighter.Fighter) error {
	query, args, err := qb.InsertModel("fighters", fighterInsertFromDomain(f), "")
	if err != nil {
		return fmt.Errorf("build insert fighter query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert fighter: %w", err)
	}

	return nil
}

func (r *FighterRepository) Update(ctx context.Context, f *fighter.Fighter) error {
	query, args, err := qb.Update("fighters").
		Set("first_name", f.FirstName).
		Set("last_name", f.LastName).
		Set("normalized_name", f.NormalizedName).
		Set("nickname", f.Nickname).
		Set("date_of_birth", f.DateOfBirth).
		Set("nationality", f.Nationality).
		Set("hometown", f.Hometown).
		Set("height_cm", nullFloat(f.HeightCM)).
		Set("weight_kg", nullFloat(f.WeightKG)).
		Set("reach_cm", nullFloat(f.ReachCM)).
		Set("leg_reach_cm", nullFloat(f.LegReachCM)).
		Set("weight_class", f.WeightClass).
		Set("stance", f.Stance).
		Set("is_active", f.IsActive).
		Set("wins", f.Wins).
		Set("losses", f.Losses).
		Set("draws", f.Draws).
		Set("no_contests", f.NoContests).
		Set("ko_wins", f.KOWins).
		Set("submission_wins", f.SubmissionWins).
		Set("decision_wins", f.DecisionWins).
		Set("ufc_id", f.UFCID).
		Set("espn_id", f.ESPNID).
		Set("updated_at", f.UpdatedAt).
		Where(qb.Eq("public_id", f.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update fighter query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update fighter: %w", err)
	}

	return nil
}
