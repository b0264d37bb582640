package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/prasetyowira/fightcast/internal/domain/fight"
)

type fightTableModel struct {
	ID                 int64         `db:"id"`
	PublicID           string        `db:"public_id"`
	EventPublicID      string        `db:"event_public_id"`
	Fighter1PublicID   string        `db:"fighter1_public_id"`
	Fighter2PublicID   string        `db:"fighter2_public_id"`
	WeightClass        string        `db:"weight_class"`
	IsTitleFight       bool          `db:"is_title_fight"`
	IsMainEvent        bool          `db:"is_main_event"`
	ScheduledRounds    int           `db:"scheduled_rounds"`
	FightOrder         int           `db:"fight_order"`
	WinnerPublicID     string        `db:"winner_public_id"`
	ResultMethod       string        `db:"result_method"`
	ResultMethodDetail string        `db:"result_method_detail"`
	EndingRound        sql.NullInt64 `db:"ending_round"`
	EndingTime         string        `db:"ending_time"`
	IsNoContest        bool          `db:"is_no_contest"`
	IsDraw             bool          `db:"is_draw"`
	Fighter1Stats      []byte        `db:"fighter1_stats"`
	Fighter2Stats      []byte        `db:"fighter2_stats"`
	CreatedAt          time.Time     `db:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at"`
}

// fightDetailModel adds the card date joined in from events.
type fightDetailModel struct {
	fightTableModel
	EventDate time.Time `db:"event_date"`
}

type fightInsertModel struct {
	PublicID           string        `db:"public_id"`
	EventPublicID      string        `db:"event_public_id"`
	Fighter1PublicID   string        `db:"fighter1_public_id"`
	Fighter2PublicID   string        `db:"fighter2_public_id"`
	WeightClass        string        `db:"weight_class"`
	IsTitleFight       bool          `db:"is_title_fight"`
	IsMainEvent        bool          `db:"is_main_event"`
	ScheduledRounds    int           `db:"scheduled_rounds"`
	FightOrder         int           `db:"fight_order"`
	WinnerPublicID     string        `db:"winner_public_id"`
	ResultMethod       string        `db:"result_method"`
	ResultMethodDetail string        `db:"result_method_detail"`
	EndingRound        sql.NullInt64 `db:"ending_round"`
	EndingTime         string        `db:"ending_time"`
	IsNoContest        bool          `db:"is_no_contest"`
	IsDraw             bool          `db:"is_draw"`
	Fighter1Stats      []byte        `db:"fighter1_stats"`
	Fighter2Stats      []byte        `db:"fighter2_stats"`
	CreatedAt          time.Time     `db:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at"`
}

func fightInsertFromDomain(f *fight.Fight) (fightInsertModel, error) {
	stats1, err := marshalStats(f.Fighter1Stats)
	if err != nil {
		return fightInsertModel{}, fmt.Errorf("encode fighter 1 stats: %w", err)
	}
	stats2, err := marshalStats(f.Fighter2Stats)
	if err != nil {
		return fightInsertModel{}, fmt.Errorf("encode fighter 2 stats: %w", err)
	}

	return fightInsertModel{
		PublicID:           f.ID,
		EventPublicID:      f.EventID,
		Fighter1PublicID:   f.Fighter1ID,
		Fighter2PublicID:   f.Fighter2ID,
		WeightClass:        f.WeightClass,
		IsTitleFight:       f.IsTitleFight,
		IsMainEvent:        f.IsMainEvent,
		ScheduledRounds:    f.ScheduledRounds,
		FightOrder:         f.FightOrder,
		WinnerPublicID:     f.WinnerID,
		ResultMethod:       f.ResultMethod,
		ResultMethodDetail: f.ResultMethodDetail,
		EndingRound:        nullInt(f.EndingRound),
		EndingTime:         f.EndingTime,
		IsNoContest:        f.IsNoContest,
		IsDraw:             f.IsDraw,
		Fighter1Stats:      stats1,
		Fighter2Stats:      stats2,
		CreatedAt:          f.CreatedAt,
		UpdatedAt:          f.UpdatedAt,
	}, nil
}

func (m fightTableModel) toDomain() (*fight.Fight, error) {
	stats1, err := unmarshalStats(m.Fighter1Stats)
	if err != nil {
		return nil, fmt.Errorf("decode fighter 1 stats: %w", err)
	}
	stats2, err := unmarshalStats(m.Fighter2Stats)
	if err != nil {
		return nil, fmt.Errorf("decode fighter 2 stats: %w", err)
	}

	return &fight.Fight{
		ID:                 m.PublicID,
		EventID:            m.EventPublicID,
		Fighter1ID:         m.Fighter1PublicID,
		Fighter2ID:         m.Fighter2PublicID,
		WeightClass:        m.WeightClass,
		IsTitleFight:       m.IsTitleFight,
		IsMainEvent:        m.IsMainEvent,
		ScheduledRounds:    m.ScheduledRounds,
		FightOrder:         m.FightOrder,
		WinnerID:           m.WinnerPublicID,
		ResultMethod:       m.ResultMethod,
		ResultMethodDetail: m.ResultMethodDetail,
		EndingRound:        intPtr(m.EndingRound),
		EndingTime:         m.EndingTime,
		IsNoContest:        m.IsNoContest,
		IsDraw:             m.IsDraw,
		Fighter1Stats:      stats1,
		Fighter2Stats:      stats2,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}, nil
}

func (m fightDetailModel) toDetail() (fight.Detail, error) {
	f, err := m.fightTableModel.toDomain()
	if err != nil {
		return fight.Detail{}, err
	}
	return fight.Detail{Fight: *f, EventDate: m.EventDate}, nil
}

func marshalStats(stats map[string]float64) ([]byte, error) {
	if len(stats) == 0 {
		return nil, nil
	}
	return sonic.Marshal(stats)
}

func unmarshalStats(raw []byte) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var stats map[string]float64
	if err := sonic.Unmarshal(raw, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
