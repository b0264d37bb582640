package snapshot

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/fight"
)

// Stats is the result of replaying a fighter's completed history up to a
// cutoff. All counters reflect only fights strictly before the cutoff.
type Stats struct {
	Wins       int
	Losses     int
	Draws      int
	NoContests int

	KOWins         int
	SubmissionWins int
	DecisionWins   int

	KOLosses         int
	SubmissionLosses int
	DecisionLosses   int

	CurrentWinStreak  int
	CurrentLossStreak int
	LongestWinStreak  int

	FinishRate     *float64
	KORate         *float64
	SubmissionRate *float64
	WinPercentage  *float64

	TitleFightWins   int
	TitleFightLosses int

	StrikingAccuracy      *float64
	StrikesLandedPerMin   *float64
	StrikesAbsorbedPerMin *float64
	StrikeDefense         *float64
	TakedownAccuracy      *float64
	TakedownAvgPer15Min   *float64
	TakedownDefense       *float64
	SubmissionAvgPer15Min *float64

	AvgFightTimeSeconds *int
	FightsInWeightClass int

	RecentForm         string
	RecentWins         int
	RecentLosses       int
	DaysSinceLastFight *int
}

// ParseTimeToSeconds converts a round clock plus round number into total
// elapsed fight time. Rounds are five minutes each.
func ParseTimeToSeconds(endingTime string, endingRound *int) (int, bool) {
	if endingTime == "" || endingRound == nil || *endingRound < 1 {
		return 0, false
	}

	parts := strings.Split(endingTime, ":")
	if len(parts) != 2 {
		return 0, false
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}

	completedRounds := *endingRound - 1
	return completedRounds*5*60 + minutes*60 + seconds, true
}

func isKOMethod(method string) bool {
	m := strings.ToLower(method)
	return strings.Contains(m, "ko") || strings.Contains(m, "tko")
}

func isSubmissionMethod(method string) bool {
	return strings.Contains(strings.ToLower(method), "sub")
}

func isDecisionMethod(method string) bool {
	m := strings.ToLower(method)
	return strings.Contains(m, "decision") || strings.Contains(m, "dec")
}

// ComputeStats replays history in the given order and accumulates the
// fighter's record. History must already be filtered to completed fights
// strictly before the cutoff and ordered ascending by event date; the
// cutoff is only used for days-since-last-fight.
func ComputeStats(history []fight.Detail, fighterID, weightClass string, cutoff time.Time) Stats {
	var stats Stats

	if len(history) == 0 {
		return stats
	}

	currentStreak := 0
	streakIsWins := true
	longestWinStreak := 0
	var fightTimes []int
	agg := newStatAggregator()
	var lastFightDate time.Time

	for _, bout := range history {
		if bout.IsNoContest {
			stats.NoContests++
			continue
		}

		lastFightDate = bout.EventDate

		if bout.IsDraw {
			stats.Draws++
			currentStreak = 0
			continue
		}

		if weightClass != "" && bout.WeightClass == weightClass {
			stats.FightsInWeightClass++
		}

		if seconds, ok := ParseTimeToSeconds(bout.EndingTime, bout.EndingRound); ok {
			fightTimes = append(fightTimes, seconds)
		}

		agg.add(bout, fighterID)

		won := bout.WinnerID == fighterID
		if won {
			stats.Wins++

			switch {
			case isKOMethod(bout.ResultMethod):
				stats.KOWins++
			case isSubmissionMethod(bout.ResultMethod):
				stats.SubmissionWins++
			case isDecisionMethod(bout.ResultMethod):
				stats.DecisionWins++
			}

			if bout.IsTitleFight {
				stats.TitleFightWins++
			}

			if streakIsWins {
				currentStreak++
				longestWinStreak = max(longestWinStreak, currentStreak)
			} else {
				currentStreak = 1
				streakIsWins = true
				longestWinStreak = max(longestWinStreak, currentStreak)
			}
		} else {
			stats.Losses++

			switch {
			case isKOMethod(bout.ResultMethod):
				stats.KOLosses++
			case isSubmissionMethod(bout.ResultMethod):
				stats.SubmissionLosses++
			case isDecisionMethod(bout.ResultMethod):
				stats.DecisionLosses++
			}

			if bout.IsTitleFight {
				stats.TitleFightLosses++
			}

			if !streakIsWins {
				currentStreak++
			} else {
				currentStreak = 1
				streakIsWins = false
			}
		}
	}

	if streakIsWins {
		stats.CurrentWinStreak = currentStreak
	} else {
		stats.CurrentLossStreak = currentStreak
	}
	stats.LongestWinStreak = longestWinStreak

	// Rates use wins-only denominators; a fighter with decided fights but
	// zero wins gets 0 rather than an undefined rate.
	if stats.Wins+stats.Losses > 0 {
		stats.FinishRate = ptrFloat(winRate(stats.KOWins+stats.SubmissionWins, stats.Wins))
		stats.KORate = ptrFloat(winRate(stats.KOWins, stats.Wins))
		stats.SubmissionRate = ptrFloat(winRate(stats.SubmissionWins, stats.Wins))
		stats.WinPercentage = ptrFloat(round1(float64(stats.Wins) / float64(stats.Wins+stats.Losses) * 100))
	}

	if len(fightTimes) > 0 {
		total := 0
		for _, t := range fightTimes {
			total += t
		}
		avg := int(math.Round(float64(total) / float64(len(fightTimes))))
		stats.AvgFightTimeSeconds = &avg
	}

	agg.fill(&stats)

	// Recent form over the last five fights. No contests contribute no
	// letter; draws appear as D but do not count toward wins or losses.
	recent := history
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	var form strings.Builder
	for _, bout := range recent {
		if bout.IsNoContest {
			continue
		}
		if bout.IsDraw {
			form.WriteByte('D')
			continue
		}
		if bout.WinnerID == fighterID {
			form.WriteByte('W')
			stats.RecentWins++
		} else {
			form.WriteByte('L')
			stats.RecentLosses++
		}
	}
	stats.RecentForm = form.String()

	if !lastFightDate.IsZero() && !cutoff.IsZero() {
		days := int(cutoff.Sub(lastFightDate).Hours() / 24)
		if days >= 0 {
			stats.DaysSinceLastFight = &days
		}
	}

	return stats
}

// NewSnapshot maps computed stats onto a persistable snapshot for the given
// (fighter, fight) pair.
func NewSnapshot(id, fighterID, fightID string, snapshotDate time.Time, stats Stats) *Snapshot {
	return &Snapshot{
		ID:           id,
		FighterID:    fighterID,
		FightID:      fightID,
		SnapshotDate: snapshotDate,

		Wins:       stats.Wins,
		Losses:     stats.Losses,
		Draws:      stats.Draws,
		NoContests: stats.NoContests,

		KOWins:         stats.KOWins,
		SubmissionWins: stats.SubmissionWins,
		DecisionWins:   stats.DecisionWins,

		KOLosses:         stats.KOLosses,
		SubmissionLosses: stats.SubmissionLosses,
		DecisionLosses:   stats.DecisionLosses,

		WinStreak:        stats.CurrentWinStreak,
		LossStreak:       stats.CurrentLossStreak,
		LongestWinStreak: stats.LongestWinStreak,

		FinishRate:     stats.FinishRate,
		KORate:         stats.KORate,
		SubmissionRate: stats.SubmissionRate,
		WinPercentage:  stats.WinPercentage,

		TitleFightWins:   stats.TitleFightWins,
		TitleFightLosses: stats.TitleFightLosses,

		StrikingAccuracy:      stats.StrikingAccuracy,
		StrikesLandedPerMin:   stats.StrikesLandedPerMin,
		StrikesAbsorbedPerMin: stats.StrikesAbsorbedPerMin,
		StrikeDefense:         stats.StrikeDefense,
		TakedownAccuracy:      stats.TakedownAccuracy,
		TakedownAvgPer15Min:   stats.TakedownAvgPer15Min,
		TakedownDefense:       stats.TakedownDefense,
		SubmissionAvgPer15Min: stats.SubmissionAvgPer15Min,

		AvgFightTimeSeconds: stats.AvgFightTimeSeconds,
		FightsInWeightClass: stats.FightsInWeightClass,

		RecentForm:         stats.RecentForm,
		RecentWins:         stats.RecentWins,
		RecentLosses:       stats.RecentLosses,
		DaysSinceLastFight: stats.DaysSinceLastFight,
	}
}

// statAggregator accumulates per-bout stat map totals so career averages
// can be derived. Totals only include bouts where the source recorded the
// relevant counts, paired with the bout duration for per-minute rates.
type statAggregator struct {
	strikesLanded    float64
	strikesAttempted float64
	haveStrikes      bool

	oppStrikesLanded    float64
	oppStrikesAttempted float64
	haveOppStrikes      bool

	tdLanded    float64
	tdAttempted float64
	haveTD      bool

	oppTDLanded    float64
	oppTDAttempted float64
	haveOppTD      bool

	subAttempts     float64
	haveSubAttempts bool

	pairedSeconds int
}

func newStatAggregator() *statAggregator {
	return &statAggregator{}
}

const (
	statStrikesLanded    = "sig_str_landed"
	statStrikesAttempted = "sig_str_attempted"
	statTDLanded         = "td_landed"
	statTDAttempted      = "td_attempted"
	statSubAttempts      = "sub_att"
)

func (a *statAggregator) add(bout fight.Detail, fighterID string) {
	own := bout.StatsFor(fighterID)
	opp := bout.StatsFor(bout.OpponentID(fighterID))

	seconds, hasTime := ParseTimeToSeconds(bout.EndingTime, bout.EndingRound)

	if landed, ok := own[statStrikesLanded]; ok {
		if attempted, ok := own[statStrikesAttempted]; ok && attempted > 0 {
			a.strikesLanded += landed
			a.strikesAttempted += attempted
			a.haveStrikes = true
			if hasTime {
				a.pairedSeconds += seconds
			}
		}
	}
	if landed, ok := opp[statStrikesLanded]; ok {
		if attempted, ok := opp[statStrikesAttempted]; ok && attempted > 0 {
			a.oppStrikesLanded += landed
			a.oppStrikesAttempted += attempted
			a.haveOppStrikes = true
		}
	}
	if landed, ok := own[statTDLanded]; ok {
		if attempted, ok := own[statTDAttempted]; ok && attempted > 0 {
			a.tdLanded += landed
			a.tdAttempted += attempted
			a.haveTD = true
		}
	}
	if landed, ok := opp[statTDLanded]; ok {
		if attempted, ok := opp[statTDAttempted]; ok && attempted > 0 {
			a.oppTDLanded += landed
			a.oppTDAttempted += attempted
			a.haveOppTD = true
		}
	}
	if att, ok := own[statSubAttempts]; ok {
		a.subAttempts += att
		a.haveSubAttempts = true
	}
}

func (a *statAggregator) fill(stats *Stats) {
	if a.haveStrikes && a.strikesAttempted > 0 {
		stats.StrikingAccuracy = ptrFloat(round2(a.strikesLanded / a.strikesAttempted * 100))
	}
	if a.haveOppStrikes && a.oppStrikesAttempted > 0 {
		stats.StrikeDefense = ptrFloat(round2((1 - a.oppStrikesLanded/a.oppStrikesAttempted) * 100))
	}
	if a.haveTD && a.tdAttempted > 0 {
		stats.TakedownAccuracy = ptrFloat(round2(a.tdLanded / a.tdAttempted * 100))
	}
	if a.haveOppTD && a.oppTDAttempted > 0 {
		stats.TakedownDefense = ptrFloat(round2((1 - a.oppTDLanded/a.oppTDAttempted) * 100))
	}

	if a.pairedSeconds > 0 {
		minutes := float64(a.pairedSeconds) / 60
		stats.StrikesLandedPerMin = ptrFloat(round2(a.strikesLanded / minutes))
		if a.haveOppStrikes {
			stats.StrikesAbsorbedPerMin = ptrFloat(round2(a.oppStrikesLanded / minutes))
		}
		per15 := float64(a.pairedSeconds) / 900
		if a.haveTD {
			stats.TakedownAvgPer15Min = ptrFloat(round2(a.tdLanded / per15))
		}
		if a.haveSubAttempts {
			stats.SubmissionAvgPer15Min = ptrFloat(round2(a.subAttempts / per15))
		}
	}
}

func winRate(count, wins int) float64 {
	if wins == 0 {
		return 0
	}
	return round1(float64(count) / float64(wins) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptrFloat(v float64) *float64 {
	return &v
}
