package postgres

import (
	"database/sql"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/snapshot"
)

type snapshotTableModel struct {
	ID               int64     `db:"id"`
	PublicID         string    `db:"public_id"`
	FighterPublicID  string    `db:"fighter_public_id"`
	FightPublicID    string    `db:"fight_public_id"`
	SnapshotDate     time.Time `db:"snapshot_date"`
	Wins             int       `db:"wins"`
	Losses           int       `db:"losses"`
	Draws            int       `db:"draws"`
	NoContests       int       `db:"no_contests"`
	KOWins           int       `db:"ko_wins"`
	SubmissionWins   int       `db:"submission_wins"`
	DecisionWins     int       `db:"decision_wins"`
	KOLosses         int       `db:"ko_losses"`
	SubmissionLosses int       `db:"submission_losses"`
	DecisionLosses   int       `db:"decision_losses"`
	WinStreak        int       `db:"win_streak"`
	LossStreak       int       `db:"loss_streak"`
	LongestWinStreak int       `db:"longest_win_streak"`

	FinishRate     sql.NullFloat64 `db:"finish_rate"`
	KORate         sql.NullFloat64 `db:"ko_rate"`
	SubmissionRate sql.NullFloat64 `db:"submission_rate"`
	WinPercentage  sql.NullFloat64 `db:"win_percentage"`

	TitleFightWins   int `db:"title_fight_wins"`
	TitleFightLosses int `db:"title_fight_losses"`

	StrikingAccuracy      sql.NullFloat64 `db:"striking_accuracy"`
	StrikesLandedPerMin   sql.NullFloat64 `db:"strikes_landed_per_min"`
	StrikesAbsorbedPerMin sql.NullFloat64 `db:"strikes_absorbed_per_min"`
	StrikeDefense         sql.NullFloat64 `db:"strike_defense"`
	TakedownAccuracy      sql.NullFloat64 `db:"takedown_accuracy"`
	TakedownAvgPer15Min   sql.NullFloat64 `db:"takedown_avg_per_15min"`
	TakedownDefense       sql.NullFloat64 `db:"takedown_defense"`
	SubmissionAvgPer15Min sql.NullFloat64 `db:"submission_avg_per_15min"`

	AvgFightTimeSeconds sql.NullInt64 `db:"avg_fight_time_seconds"`
	FightsInWeightClass int           `db:"fights_in_weight_class"`

	RecentForm         string        `db:"recent_form"`
	RecentWins         int           `db:"recent_wins"`
	RecentLosses       int           `db:"recent_losses"`
	DaysSinceLastFight sql.NullInt64 `db:"days_since_last_fight"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type snapshotInsertModel struct {
	PublicID         string    `db:"public_id"`
	FighterPublicID  string    `db:"fighter_public_id"`
	FightPublicID    string    `db:"fight_public_id"`
	SnapshotDate     time.Time `db:"snapshot_date"`
	Wins             int       `db:"wins"`
	Losses           int       `db:"losses"`
	Draws            int       `db:"draws"`
	NoContests       int       `db:"no_contests"`
	KOWins           int       `db:"ko_wins"`
	SubmissionWins   int       `db:"submission_wins"`
	DecisionWins     int       `db:"decision_wins"`
	KOLosses         int       `db:"ko_losses"`
	SubmissionLosses int       `db:"submission_losses"`
	DecisionLosses   int       `db:"decision_losses"`
	WinStreak        int       `db:"win_streak"`
	LossStreak       int       `db:"loss_streak"`
	LongestWinStreak int       `db:"longest_win_streak"`

	FinishRate     sql.NullFloat64 `db:"finish_rate"`
	KORate         sql.NullFloat64 `db:"ko_rate"`
	SubmissionRate sql.NullFloat64 `db:"submission_rate"`
	WinPercentage  sql.NullFloat64 `db:"win_percentage"`

	TitleFightWins   int `db:"title_fight_wins"`
	TitleFightLosses int `db:"title_fight_losses"`

	StrikingAccuracy      sql.NullFloat64 `db:"striking_accuracy"`
	StrikesLandedPerMin   sql.NullFloat64 `db:"strikes_landed_per_min"`
	StrikesAbsorbedPerMin sql.NullFloat64 `db:"strikes_absorbed_per_min"`
	StrikeDefense         sql.NullFloat64 `db:"strike_defense"`
	TakedownAccuracy      sql.NullFloat64 `db:"takedown_accuracy"`
	TakedownAvgPer15Min   sql.NullFloat64 `db:"takedown_avg_per_15min"`
	TakedownDefense       sql.NullFloat64 `db:"takedown_defense"`
	SubmissionAvgPer15Min sql.NullFloat64 `db:"submission_avg_per_15min"`

	AvgFightTimeSeconds sql.NullInt64 `db:"avg_fight_time_seconds"`
	FightsInWeightClass int           `db:"fights_in_weight_class"`

	RecentForm         string        `db:"recent_form"`
	RecentWins         int           `db:"recent_wins"`
	RecentLosses       int           `db:"recent_losses"`
	DaysSinceLastFight sql.NullInt64 `db:"days_since_last_fight"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func snapshotInsertFromDomain(s *snapshot.Snapshot, now time.Time) snapshotInsertModel {
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := s.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	return snapshotInsertModel{
		PublicID:         s.ID,
		FighterPublicID:  s.FighterID,
		FightPublicID:    s.FightID,
		SnapshotDate:     s.SnapshotDate,
		Wins:             s.Wins,
		Losses:           s.Losses,
		Draws:            s.Draws,
		NoContests:       s.NoContests,
		KOWins:           s.KOWins,
		SubmissionWins:   s.SubmissionWins,
		DecisionWins:     s.DecisionWins,
		KOLosses:         s.KOLosses,
		SubmissionLosses: s.SubmissionLosses,
		DecisionLosses:   s.DecisionLosses,
		WinStreak:        s.WinStreak,
		LossStreak:       s.LossStreak,
		LongestWinStreak: s.LongestWinStreak,

		FinishRate:     nullFloat(s.FinishRate),
		KORate:         nullFloat(s.KORate),
		SubmissionRate: nullFloat(s.SubmissionRate),
		WinPercentage:  nullFloat(s.WinPercentage),

		TitleFightWins:   s.TitleFightWins,
		TitleFightLosses: s.TitleFightLosses,

		StrikingAccuracy:      nullFloat(s.StrikingAccuracy),
		StrikesLandedPerMin:   nullFloat(s.StrikesLandedPerMin),
		StrikesAbsorbedPerMin: nullFloat(s.StrikesAbsorbedPerMin),
		StrikeDefense:         nullFloat(s.StrikeDefense),
		TakedownAccuracy:      nullFloat(s.TakedownAccuracy),
		TakedownAvgPer15Min:   nullFloat(s.TakedownAvgPer15Min),
		TakedownDefense:       nullFloat(s.TakedownDefense),
		SubmissionAvgPer15Min: nullFloat(s.SubmissionAvgPer15Min),

		AvgFightTimeSeconds: nullInt(s.AvgFightTimeSeconds),
		FightsInWeightClass: s.FightsInWeightClass,

		RecentForm:         s.RecentForm,
		RecentWins:         s.RecentWins,
		RecentLosses:       s.RecentLosses,
		DaysSinceLastFight: nullInt(s.DaysSinceLastFight),

		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

func (m snapshotTableModel) toDomain() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		ID:               m.PublicID,
		FighterID:        m.FighterPublicID,
		FightID:          m.FightPublicID,
		SnapshotDate:     m.SnapshotDate,
		Wins:             m.Wins,
		Losses:           m.Losses,
		Draws:            m.Draws,
		NoContests:       m.NoContests,
		KOWins:           m.KOWins,
		SubmissionWins:   m.SubmissionWins,
		DecisionWins:     m.DecisionWins,
		KOLosses:         m.KOLosses,
		SubmissionLosses: m.SubmissionLosses,
		DecisionLosses:   m.DecisionLosses,
		WinStreak:        m.WinStreak,
		LossStreak:       m.LossStreak,
		LongestWinStreak: m.LongestWinStreak,

		FinishRate:     floatPtr(m.FinishRate),
		KORate:         floatPtr(m.KORate),
		SubmissionRate: floatPtr(m.SubmissionRate),
		WinPercentage:  floatPtr(m.WinPercentage),

		TitleFightWins:   m.TitleFightWins,
		TitleFightLosses: m.TitleFightLosses,

		StrikingAccuracy:      floatPtr(m.StrikingAccuracy),
		StrikesLandedPerMin:   floatPtr(m.StrikesLandedPerMin),
		StrikesAbsorbedPerMin: floatPtr(m.StrikesAbsorbedPerMin),
		StrikeDefense:         floatPtr(m.StrikeDefense),
		TakedownAccuracy:      floatPtr(m.TakedownAccuracy),
		TakedownAvgPer15Min:   floatPtr(m.TakedownAvgPer15Min),
		TakedownDefense:       floatPtr(m.TakedownDefense),
		SubmissionAvgPer15Min: floatPtr(m.SubmissionAvgPer15Min),

		AvgFightTimeSeconds: intPtr(m.AvgFightTimeSeconds),
		FightsInWeightClass: m.FightsInWeightClass,

		RecentForm:         m.RecentForm,
		RecentWins:         m.RecentWins,
		RecentLosses:       m.RecentLosses,
		DaysSinceLastFight: intPtr(m.DaysSinceLastFight),

		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
