package postgres

import (
	"database/sql"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/fighter"
)

type fighterTableModel struct {
	ID             int64           `db:"id"`
	PublicID       string          `db:"public_id"`
	FirstName      string          `db:"first_name"`
	LastName       string          `db:"last_name"`
	NormalizedName string          `db:"normalized_name"`
	Nickname       string          `db:"nickname"`
	DateOfBirth    *time.Time      `db:"date_of_birth"`
	Nationality    string          `db:"nationality"`
	Hometown       string          `db:"hometown"`
	HeightCM       sql.NullFloat64 `db:"height_cm"`
	WeightKG       sql.NullFloat64 `db:"weight_kg"`
	ReachCM        sql.NullFloat64 `db:"reach_cm"`
	LegReachCM     sql.NullFloat64 `db:"leg_reach_cm"`
	WeightClass    string          `db:"weight_class"`
	Stance         string          `db:"stance"`
	IsActive       bool            `db:"is_active"`
	Wins           int             `db:"wins"`
	Losses         int             `db:"losses"`
	Draws          int             `db:"draws"`
	NoContests     int             `db:"no_contests"`
	KOWins         int             `db:"ko_wins"`
	SubmissionWins int             `db:"submission_wins"`
	DecisionWins   int             `db:"decision_wins"`
	UFCID          string          `db:"ufc_id"`
	ESPNID         string          `db:"espn_id"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

type fighterInsertModel struct {
	PublicID       string          `db:"public_id"`
	FirstName      string          `db:"first_name"`
	LastName       string          `db:"last_name"`
	NormalizedName string          `db:"normalized_name"`
	Nickname       string          `db:"nickname"`
	DateOfBirth    *time.Time      `db:"date_of_birth"`
	Nationality    string          `db:"nationality"`
	Hometown       string          `db:"hometown"`
	HeightCM       sql.NullFloat64 `db:"height_cm"`
	WeightKG       sql.NullFloat64 `db:"weight_kg"`
	ReachCM        sql.NullFloat64 `db:"reach_cm"`
	LegReachCM     sql.NullFloat64 `db:"leg_reach_cm"`
	WeightClass    string          `db:"weight_class"`
	Stance         string          `db:"stance"`
	IsActive       bool            `db:"is_active"`
	Wins           int             `db:"wins"`
	Losses         int             `db:"losses"`
	Draws          int             `db:"draws"`
	NoContests     int             `db:"no_contests"`
	KOWins         int             `db:"ko_wins"`
	SubmissionWins int             `db:"submission_wins"`
	DecisionWins   int             `db:"decision_wins"`
	UFCID          string          `db:"ufc_id"`
	ESPNID         string          `db:"espn_id"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

func fighterInsertFromDomain(f *fighter.Fighter) fighterInsertModel {
	return fighterInsertModel{
		PublicID:       f.ID,
		FirstName:      f.FirstName,
		LastName:       f.LastName,
		NormalizedName: f.NormalizedName,
		Nickname:       f.Nickname,
		DateOfBirth:    f.DateOfBirth,
		Nationality:    f.Nationality,
		Hometown:       f.Hometown,
		HeightCM:       nullFloat(f.HeightCM),
		WeightKG:       nullFloat(f.WeightKG),
		ReachCM:        nullFloat(f.ReachCM),
		LegReachCM:     nullFloat(f.LegReachCM),
		WeightClass:    f.WeightClass,
		Stance:         f.Stance,
		IsActive:       f.IsActive,
		Wins:           f.Wins,
		Losses:         f.Losses,
		Draws:          f.Draws,
		NoContests:     f.NoContests,
		KOWins:         f.KOWins,
		SubmissionWins: f.SubmissionWins,
		DecisionWins:   f.DecisionWins,
		UFCID:          f.UFCID,
		ESPNID:         f.ESPNID,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

func (m fighterTableModel) toDomain() *fighter.Fighter {
	return &fighter.Fighter{
		ID:             m.PublicID,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		NormalizedName: m.NormalizedName,
		Nickname:       m.Nickname,
		DateOfBirth:    m.DateOfBirth,
		Nationality:    m.Nationality,
		Hometown:       m.Hometown,
		HeightCM:       floatPtr(m.HeightCM),
		WeightKG:       floatPtr(m.WeightKG),
		ReachCM:        floatPtr(m.ReachCM),
		LegReachCM:     floatPtr(m.LegReachCM),
		WeightClass:    m.WeightClass,
		Stance:         m.Stance,
		IsActive:       m.IsActive,
		Wins:           m.Wins,
		Losses:         m.Losses,
		Draws:          m.Draws,
		NoContests:     m.NoContests,
		KOWins:         m.KOWins,
		SubmissionWins: m.SubmissionWins,
		DecisionWins:   m.DecisionWins,
		UFCID:          m.UFCID,
		ESPNID:         m.ESPNID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
