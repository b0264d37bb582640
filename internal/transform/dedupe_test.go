package transform

import (
	"testing"

	"github.com/prasetyowira/fightcast/internal/domain/source"
)

func TestNameSimilarity(t *testing.T) {
	cases := []struct {
		name1 string
		name2 string
		want  float64
	}{
		{"Conor McGregor", "Conor McGregor", 1.0},
		{"Conor McGregor", "conor mcgregor", 1.0},
		{"Jon Jones", "Jonathan Jon Jones", 0.9},
		{"Conor McGregor", "Khabib Nurmagomedov", 0.0},
		{"", "Conor McGregor", 0.0},
	}

	for _, tc := range cases {
		if got := NameSimilarity(tc.name1, tc.name2); got != tc.want {
			t.Errorf("NameSimilarity(%q, %q) = %v, want %v", tc.name1, tc.name2, got, tc.want)
		}
	}
}

func TestNameSimilaritySurnameBonus(t *testing.T) {
	// Shared surname plus one shared token out of three distinct tokens:
	// jaccard 1/3 plus the 0.3 surname bonus.
	got := NameSimilarity("Alex Pereira", "Alexandre Pereira")
	want := 1.0/3.0 + 0.3
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("NameSimilarity = %v, want %v", got, want)
	}

	// Bonus never pushes the score past 1.0.
	if got := NameSimilarity("Jones Jones", "Jones Jones Jr"); got > 1.0 {
		t.Errorf("similarity exceeded 1.0: %v", got)
	}
}

func TestFindDuplicateFighters(t *testing.T) {
	d := NewDeduplicator(DefaultSimilarityThreshold)

	fighters := []source.RawFighter{
		{FirstName: "Conor", LastName: "McGregor"},
		{FirstName: "Conor", LastName: "Mcgregor"},
		{FirstName: "Dustin", LastName: "Poirier"},
	}

	pairs := d.FindDuplicateFighters(fighters)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 duplicate pair, got %d", len(pairs))
	}
	if pairs[0].Primary != 0 || pairs[0].Secondary != 1 {
		t.Errorf("unexpected pair indices: %+v", pairs[0])
	}
	if pairs[0].Similarity != 1.0 {
		t.Errorf("expected similarity 1.0, got %v", pairs[0].Similarity)
	}
}

func TestDeduplicateFighters(t *testing.T) {
	d := NewDeduplicator(DefaultSimilarityThreshold)

	reach := 188.0
	fighters := []source.RawFighter{
		{FirstName: "Conor", LastName: "McGregor", Nickname: "The Notorious"},
		{FirstName: "Conor", LastName: "Mcgregor", ReachCM: &reach, Wins: 22},
		{FirstName: "Dustin", LastName: "Poirier"},
	}

	out := d.DeduplicateFighters(fighters)
	if len(out) != 2 {
		t.Fatalf("expected 2 fighters after dedup, got %d", len(out))
	}

	merged := out[0]
	if merged.Nickname != "The Notorious" {
		t.Errorf("primary scalar lost in merge: %+v", merged)
	}
	if merged.ReachCM == nil || *merged.ReachCM != 188.0 {
		t.Error("secondary should fill nil pointer fields on the primary")
	}
	if merged.Wins != 22 {
		t.Errorf("expected max of counters, got wins=%d", merged.Wins)
	}

	// A second pass over already deduplicated output changes nothing.
	again := d.DeduplicateFighters(out)
	if len(again) != len(out) {
		t.Fatalf("dedup not idempotent: %d -> %d", len(out), len(again))
	}
}

func TestDeduplicateFightersPreservesOrder(t *testing.T) {
	d := NewDeduplicator(DefaultSimilarityThreshold)

	fighters := []source.RawFighter{
		{FirstName: "Amanda", LastName: "Nunes"},
		{FirstName: "Valentina", LastName: "Shevchenko"},
		{FirstName: "Amanda", LastName: "NUNES"},
	}

	out := d.DeduplicateFighters(fighters)
	if len(out) != 2 {
		t.Fatalf("expected 2 fighters, got %d", len(out))
	}
	if out[0].LastName != "Nunes" || out[1].LastName != "Shevchenko" {
		t.Errorf("input order not preserved: %+v", out)
	}
}
