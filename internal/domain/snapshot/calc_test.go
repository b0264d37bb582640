package snapshot

import (
	"testing"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/fight"
)

const (
	fighterA = "fighter-a"
	fighterB = "fighter-b"
)

func day(year, month, dayOfMonth int) time.Time {
	return time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func bout(eventDate time.Time, winnerID, method string) fight.Detail {
	return fight.Detail{
		Fight: fight.Fight{
			ID:           "fight-" + eventDate.Format("2006-01-02"),
			Fighter1ID:   fighterA,
			Fighter2ID:   fighterB,
			WeightClass:  "Lightweight",
			WinnerID:     winnerID,
			ResultMethod: method,
		},
		EventDate: eventDate,
	}
}

func TestComputeStatsWinLossWin(t *testing.T) {
	history := []fight.Detail{
		bout(day(2023, 1, 14), fighterA, "KO/TKO"),
		bout(day(2023, 6, 10), fighterB, "Decision (Unanimous)"),
		bout(day(2024, 2, 17), fighterA, "Submission"),
	}

	stats := ComputeStats(history, fighterA, "Lightweight", day(2024, 8, 3))

	if stats.Wins != 2 || stats.Losses != 1 {
		t.Fatalf("record = %d-%d, want 2-1", stats.Wins, stats.Losses)
	}
	if stats.CurrentWinStreak != 1 {
		t.Errorf("current win streak = %d, want 1", stats.CurrentWinStreak)
	}
	if stats.LongestWinStreak != 1 {
		t.Errorf("longest win streak = %d, want 1", stats.LongestWinStreak)
	}
	if stats.KOWins != 1 || stats.SubmissionWins != 1 {
		t.Errorf("win methods = %d KO / %d sub, want 1/1", stats.KOWins, stats.SubmissionWins)
	}
	if stats.DecisionLosses != 1 {
		t.Errorf("decision losses = %d, want 1", stats.DecisionLosses)
	}
	if stats.FightsInWeightClass != 3 {
		t.Errorf("fights in weight class = %d, want 3", stats.FightsInWeightClass)
	}
	if stats.RecentForm != "WLW" {
		t.Errorf("recent form = %q, want WLW", stats.RecentForm)
	}
}

func TestComputeStatsRates(t *testing.T) {
	history := []fight.Detail{
		bout(day(2022, 3, 5), fighterA, "KO/TKO"),
		bout(day(2022, 9, 10), fighterA, "KO/TKO"),
		bout(day(2023, 4, 8), fighterA, "Decision (Split)"),
		bout(day(2023, 11, 11), fighterB, "Submission"),
	}

	stats := ComputeStats(history, fighterA, "", day(2024, 5, 1))

	if stats.KORate == nil || *stats.KORate != 66.7 {
		t.Fatalf("ko rate = %v, want 66.7", stats.KORate)
	}
	if stats.FinishRate == nil || *stats.FinishRate != 66.7 {
		t.Errorf("finish rate = %v, want 66.7", stats.FinishRate)
	}
	if stats.SubmissionRate == nil || *stats.SubmissionRate != 0.0 {
		t.Errorf("submission rate = %v, want 0", stats.SubmissionRate)
	}
	if stats.WinPercentage == nil || *stats.WinPercentage != 75.0 {
		t.Errorf("win percentage = %v, want 75", stats.WinPercentage)
	}
}

func TestComputeStatsZeroWinsRates(t *testing.T) {
	history := []fight.Detail{
		bout(day(2023, 2, 4), fighterB, "KO/TKO"),
	}

	stats := ComputeStats(history, fighterA, "", day(2023, 9, 1))

	if stats.KORate == nil || *stats.KORate != 0 {
		t.Fatalf("ko rate with zero wins = %v, want 0", stats.KORate)
	}
	if stats.FinishRate == nil || *stats.FinishRate != 0 {
		t.Errorf("finish rate with zero wins = %v, want 0", stats.FinishRate)
	}
}

func TestComputeStatsStreakRules(t *testing.T) {
	draw := bout(day(2023, 5, 6), "", "")
	draw.IsDraw = true
	noContest := bout(day(2023, 8, 12), "", "")
	noContest.IsNoContest = true

	history := []fight.Detail{
		bout(day(2022, 7, 2), fighterA, "KO/TKO"),
		bout(day(2022, 12, 10), fighterA, "Decision (Unanimous)"),
		draw,
		noContest,
		bout(day(2024, 1, 20), fighterA, "Submission"),
	}

	stats := ComputeStats(history, fighterA, "", day(2024, 6, 1))

	// The draw resets the streak to zero; the no contest is skipped
	// entirely; the final win starts a fresh streak of one.
	if stats.CurrentWinStreak != 1 {
		t.Errorf("current win streak = %d, want 1", stats.CurrentWinStreak)
	}
	if stats.LongestWinStreak != 2 {
		t.Errorf("longest win streak = %d, want 2", stats.LongestWinStreak)
	}
	if stats.Draws != 1 || stats.NoContests != 1 {
		t.Errorf("draws/ncs = %d/%d, want 1/1", stats.Draws, stats.NoContests)
	}
	if stats.RecentForm != "WWDW" {
		t.Errorf("recent form = %q, want WWDW", stats.RecentForm)
	}
	if stats.RecentWins != 3 || stats.RecentLosses != 0 {
		t.Errorf("recent record = %d-%d, want 3-0", stats.RecentWins, stats.RecentLosses)
	}
}

func TestComputeStatsLossStreak(t *testing.T) {
	history := []fight.Detail{
		bout(day(2023, 1, 7), fighterB, "KO/TKO"),
		bout(day(2023, 7, 15), fighterB, "Decision (Unanimous)"),
	}

	stats := ComputeStats(history, fighterA, "", day(2024, 1, 1))

	if stats.CurrentWinStreak != 0 {
		t.Errorf("current win streak = %d, want 0", stats.CurrentWinStreak)
	}
	if stats.CurrentLossStreak != 2 {
		t.Errorf("current loss streak = %d, want 2", stats.CurrentLossStreak)
	}
}

func TestComputeStatsWinAfterLossCountsTowardLongest(t *testing.T) {
	history := []fight.Detail{
		bout(day(2023, 3, 4), fighterB, "KO/TKO"),
		bout(day(2023, 10, 21), fighterA, "Decision (Unanimous)"),
	}

	stats := ComputeStats(history, fighterA, "", day(2024, 4, 1))

	// A win that breaks a losing run is a streak of one, and one is the
	// longest win streak seen so far.
	if stats.CurrentWinStreak != 1 {
		t.Errorf("current win streak = %d, want 1", stats.CurrentWinStreak)
	}
	if stats.LongestWinStreak != 1 {
		t.Errorf("longest win streak = %d, want 1", stats.LongestWinStreak)
	}
}

func TestComputeStatsIgnoresNothingBeforeCutoff(t *testing.T) {
	history := []fight.Detail{
		bout(day(2023, 3, 4), fighterA, "KO/TKO"),
	}

	before := ComputeStats(history, fighterA, "", day(2023, 10, 1))

	// Appending a later fight to history must not change what an earlier
	// cutoff would have produced; the caller filters by date, so the same
	// prefix always yields the same stats.
	extended := append(history, bout(day(2024, 2, 10), fighterB, "Submission"))
	after := ComputeStats(extended[:1], fighterA, "", day(2023, 10, 1))

	if before.Wins != after.Wins || before.Losses != after.Losses {
		t.Fatalf("same prefix produced different stats: %+v vs %+v", before, after)
	}
}

func TestComputeStatsFightTime(t *testing.T) {
	round2 := 2
	round3 := 3

	first := bout(day(2023, 2, 11), fighterA, "KO/TKO")
	first.EndingRound = &round2
	first.EndingTime = "3:30"

	second := bout(day(2023, 9, 16), fighterA, "Submission")
	second.EndingRound = &round3
	second.EndingTime = "1:00"

	stats := ComputeStats([]fight.Detail{first, second}, fighterA, "", day(2024, 3, 1))

	// 8:30 and 11:00 of elapsed time average to 9:45.
	if stats.AvgFightTimeSeconds == nil || *stats.AvgFightTimeSeconds != 585 {
		t.Fatalf("avg fight time = %v, want 585", stats.AvgFightTimeSeconds)
	}
}

func TestComputeStatsDaysSinceLastFight(t *testing.T) {
	history := []fight.Detail{
		bout(day(2024, 1, 1), fighterA, "KO/TKO"),
	}

	stats := ComputeStats(history, fighterA, "", day(2024, 1, 31))

	if stats.DaysSinceLastFight == nil || *stats.DaysSinceLastFight != 30 {
		t.Fatalf("days since last fight = %v, want 30", stats.DaysSinceLastFight)
	}
}

func TestComputeStatsAggregatesBoutStats(t *testing.T) {
	round3 := 3

	b := bout(day(2023, 4, 15), fighterA, "Decision (Unanimous)")
	b.EndingRound = &round3
	b.EndingTime = "5:00"
	b.Fighter1Stats = map[string]float64{
		"sig_str_landed":    75,
		"sig_str_attempted": 150,
		"td_landed":         3,
		"td_attempted":      6,
		"sub_att":           2,
	}
	b.Fighter2Stats = map[string]float64{
		"sig_str_landed":    40,
		"sig_str_attempted": 100,
		"td_landed":         1,
		"td_attempted":      4,
	}

	stats := ComputeStats([]fight.Detail{b}, fighterA, "", day(2023, 12, 1))

	if stats.StrikingAccuracy == nil || *stats.StrikingAccuracy != 50.0 {
		t.Fatalf("striking accuracy = %v, want 50", stats.StrikingAccuracy)
	}
	if stats.StrikeDefense == nil || *stats.StrikeDefense != 60.0 {
		t.Errorf("strike defense = %v, want 60", stats.StrikeDefense)
	}
	if stats.TakedownAccuracy == nil || *stats.TakedownAccuracy != 50.0 {
		t.Errorf("takedown accuracy = %v, want 50", stats.TakedownAccuracy)
	}
	if stats.TakedownDefense == nil || *stats.TakedownDefense != 75.0 {
		t.Errorf("takedown defense = %v, want 75", stats.TakedownDefense)
	}
	// 15 minutes of fight time: 75 strikes over 15 min, 3 takedowns and 2
	// sub attempts over one 15 minute window.
	if stats.StrikesLandedPerMin == nil || *stats.StrikesLandedPerMin != 5.0 {
		t.Errorf("strikes per min = %v, want 5", stats.StrikesLandedPerMin)
	}
	if stats.TakedownAvgPer15Min == nil || *stats.TakedownAvgPer15Min != 3.0 {
		t.Errorf("takedowns per 15 = %v, want 3", stats.TakedownAvgPer15Min)
	}
	if stats.SubmissionAvgPer15Min == nil || *stats.SubmissionAvgPer15Min != 2.0 {
		t.Errorf("sub attempts per 15 = %v, want 2", stats.SubmissionAvgPer15Min)
	}
}

func TestParseTimeToSeconds(t *testing.T) {
	round1Num := 1
	round5 := 5

	cases := []struct {
		time   string
		round  *int
		want   int
		wantOK bool
	}{
		{"4:32", &round1Num, 272, true},
		{"0:30", &round5, 1230, true},
		{"", &round1Num, 0, false},
		{"4:32", nil, 0, false},
		{"junk", &round1Num, 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseTimeToSeconds(tc.time, tc.round)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("ParseTimeToSeconds(%q, %v) = (%d, %v), want (%d, %v)",
				tc.time, tc.round, got, ok, tc.want, tc.wantOK)
		}
	}
}
