package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prasetyowira/fightcast/internal/domain/snapshot"
	qb "github.com/prasetyowira/fightcast/internal/platform/querybuilder"
)

type SnapshotRepository struct {
	db queryer
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) GetByFighterAndFight(ctx context.Context, fighterID, fightID string) (*snapshot.Snapshot, error) {
	query, args, err := qb.Select("*").From("fighter_snapshots").
		Where(
			qb.Eq("fighter_public_id", fighterID),
			qb.Eq("fight_public_id", fightID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get snapshot query: %w", err)
	}

	var row snapshotTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	return row.toDomain(), nil
}

func (r *SnapshotRepository) ListByFight(ctx context.Context, fightID string) ([]snapshot.Snapshot, error) {
	return r.selectSnapshots(ctx, "fighter_public_id", qb.Eq("fight_public_id", fightID))
}

func (r *SnapshotRepository) ListByFighter(ctx context.Context, fighterID string) ([]snapshot.Snapshot, error) {
	return r.selectSnapshots(ctx, "snapshot_date", qb.Eq("fighter_public_id", fighterID))
}

func (r *SnapshotRepository) selectSnapshots(ctx context.Context, orderBy string, cond qb.Condition) ([]snapshot.Snapshot, error) {
	query, args, err := qb.Select("*").From("fighter_snapshots").
		Where(cond).
		OrderBy(orderBy).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list snapshots query: %w", err)
	}

	var rows []snapshotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select snapshots: %w", err)
	}

	out := make([]snapshot.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row.toDomain())
	}

	return out, nil
}

func (r *SnapshotRepository) Create(ctx context.Context, s *snapshot.Snapshot) error {
	query, args, err := qb.InsertModel("fighter_snapshots", snapshotInsertFromDomain(s, time.Now()), "")
	if err != nil {
		return fmt.Errorf("build insert snapshot query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	return nil
}

// Replace overwrites every computed column of an existing snapshot in one
// statement so a recomputation can never leave a row half old, half new.
func (r *SnapshotRepository) Replace(ctx context.Context, s *snapshot.Snapshot) error {
	query, args, err := qb.Update("fighter_snapshots").
		Set("snapshot_date", s.SnapshotDate).
		Set("wins", s.Wins).
		Set("losses", s.Losses).
		Set("draws", s.Draws).
		Set("no_contests", s.NoContests).
		Set("ko_wins", s.KOWins).
		Set("submission_wins", s.SubmissionWins).
		Set("decision_wins", s.DecisionWins).
		Set("ko_losses", s.KOLosses).
		Set("submission_losses", s.SubmissionLosses).
		Set("decision_losses", s.DecisionLosses).
		Set("win_streak", s.WinStreak).
		Set("loss_streak", s.LossStreak).
		Set("longest_win_streak", s.LongestWinStreak).
		Set("finish_rate", nullFloat(s.FinishRate)).
		Set("ko_rate", nullFloat(s.KORate)).
		Set("submission_rate", nullFloat(s.SubmissionRate)).
		Set("win_percentage", nullFloat(s.WinPercentage)).
		Set("title_fight_wins", s.TitleFightWins).
		Set("title_fight_losses", s.TitleFightLosses).
		Set("striking_accuracy", nullFloat(s.StrikingAccuracy)).
		Set("strikes_landed_per_min", nullFloat(s.StrikesLandedPerMin)).
		Set("strikes_absorbed_per_min", nullFloat(s.StrikesAbsorbedPerMin)).
		Set("strike_defense", nullFloat(s.StrikeDefense)).
		Set("takedown_accuracy", nullFloat(s.TakedownAccuracy)).
		Set("takedown_avg_per_15min", nullFloat(s.TakedownAvgPer15Min)).
		Set("takedown_defense", nullFloat(s.TakedownDefense)).
		Set("submission_avg_per_15min", nullFloat(s.SubmissionAvgPer15Min)).
		Set("avg_fight_time_seconds", nullInt(s.AvgFightTimeSeconds)).
		Set("fights_in_weight_class", s.FightsInWeightClass).
		Set("recent_form", s.RecentForm).
		Set("recent_wins", s.RecentWins).
		Set("recent_losses", s.RecentLosses).
		Set("days_since_last_fight", nullInt(s.DaysSinceLastFight)).
		Set("updated_at", time.Now()).
		Where(qb.Eq("public_id", s.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build replace snapshot query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	return nil
}
