package espn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/source"
	"github.com/prasetyowira/fightcast/internal/platform/logging"
)

const scoreboardFixture = `{
  "events": [
    {
      "id": "600050000",
      "name": "UFC 320: Jones vs Aspinall",
      "date": "2026-09-12T03:00Z",
      "status": {"type": {"completed": false}},
      "competitions": [
        {
          "venue": {
            "fullName": "T-Mobile Arena",
            "address": {"city": "Las Vegas", "state": "NV", "country": "USA"}
          }
        }
      ]
    },
    {
      "id": "600049000",
      "name": "UFC Fight Night: Silva vs Costa",
      "date": "2026-08-22T23:00Z",
      "status": {"type": {"completed": true}},
      "competitions": [
        {
          "venue": {
            "fullName": "UFC Apex",
            "address": {"city": "Las Vegas", "state": "NV", "country": "USA"}
          }
        }
      ]
    }
  ]
}`

const eventCardFixture = `{
  "events": [
    {
      "id": "600050000",
      "name": "UFC 320: Jones vs Aspinall",
      "date": "2026-09-12T03:00Z",
      "competitions": [
        {
          "type": {"text": "Lightweight Bout"},
          "status": {"type": {"completed": false}},
          "competitors": [
            {"athlete": {"displayName": "Dan Hooker"}},
            {"athlete": {"displayName": "Paddy Pimblett"}}
          ]
        },
        {
          "type": {"text": "Middleweight Bout"},
          "status": {"type": {"completed": true, "detail": "KO/TKO"}},
          "competitors": [
            {"athlete": {"displayName": "Caio Borralho"}},
            {"winner": true, "athlete": {"displayName": "Nassourdine Imavov"}}
          ]
        },
        {
          "type": {"text": "Flyweight Bout"},
          "status": {"type": {"completed": true, "detail": "Majority Draw"}},
          "competitors": [
            {"athlete": {"displayName": "Tim Elliott"}},
            {"athlete": {"displayName": "Kai Kara-France"}}
          ]
        },
        {
          "type": {"text": "Heavyweight Title Bout"},
          "status": {"type": {"completed": false}},
          "competitors": [
            {"athlete": {"displayName": "Jon Jones"}},
            {"athlete": {"displayName": "Tom Aspinall"}}
          ]
        }
      ]
    }
  ]
}`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Logger:  logging.NewNop(),
	})
	client.now = func() time.Time {
		return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	}
	return client
}

func fixtureHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/scoreboard", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(scoreboardFixture))
	})
	mux.HandleFunc("/scoreboard/600050000", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(eventCardFixture))
	})
	return mux
}

func TestFetchEvents(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, fixtureHandler())
	events, err := client.FetchEvents(context.Background(), source.EventFilter{})
	if err != nil {
		t.Fatalf("FetchEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got=%d", len(events))
	}

	first := events[0]
	if first.Name != "UFC 320: Jones vs Aspinall" {
		t.Fatalf("unexpected name %q", first.Name)
	}
	if !first.EventDate.Equal(time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected event date %v", first.EventDate)
	}
	if first.EventType != source.EventTypeNumbered {
		t.Fatalf("expected numbered event, got=%q", first.EventType)
	}
	if first.Venue != "T-Mobile Arena" || first.City != "Las Vegas" || first.Country != "USA" {
		t.Fatalf("unexpected venue %q %q %q", first.Venue, first.City, first.Country)
	}
	if first.IsCompleted {
		t.Fatal("expected upcoming event to be incomplete")
	}
	if first.ESPNID != "600050000" {
		t.Fatalf("unexpected espn id %q", first.ESPNID)
	}

	second := events[1]
	if second.EventType != source.EventTypeFightNight {
		t.Fatalf("expected fight night, got=%q", second.EventType)
	}
	if !second.IsCompleted {
		t.Fatal("expected completed event")
	}
}

func TestFetchEventsDateFilter(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, fixtureHandler())
	filter := source.EventFilter{StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)}
	events, err := client.FetchEvents(context.Background(), filter)
	if err != nil {
		t.Fatalf("FetchEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event after filter, got=%d", len(events))
	}
	if events[0].Name != "UFC 320: Jones vs Aspinall" {
		t.Fatalf("unexpected event %q", events[0].Name)
	}
}

func TestFetchUpcomingEventsSkipsPast(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, fixtureHandler())
	events, err := client.FetchUpcomingEvents(context.Background())
	if err != nil {
		t.Fatalf("FetchUpcomingEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected only the future event, got=%d", len(events))
	}
	if events[0].ESPNID != "600050000" {
		t.Fatalf("unexpected event %q", events[0].Name)
	}
}

func TestFetchFights(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, fixtureHandler())
	fights, err := client.FetchFights(context.Background(), "UFC 320: Jones vs Aspinall", source.EventFilter{})
	if err != nil {
		t.Fatalf("FetchFights: %v", err)
	}
	if len(fights) != 4 {
		t.Fatalf("expected 4 fights, got=%d", len(fights))
	}

	opener := fights[0]
	if opener.Fighter1Name != "Dan Hooker" || opener.Fighter2Name != "Paddy Pimblett" {
		t.Fatalf("unexpected opener %q vs %q", opener.Fighter1Name, opener.Fighter2Name)
	}
	if opener.FightOrder != 4 {
		t.Fatalf("expected fight order 4, got=%d", opener.FightOrder)
	}
	if opener.ScheduledRounds != 3 {
		t.Fatalf("expected 3 rounds, got=%d", opener.ScheduledRounds)
	}
	if opener.WeightClass != "Lightweight" {
		t.Fatalf("unexpected weight class %q", opener.WeightClass)
	}
	if opener.EventName != "UFC 320: Jones vs Aspinall" {
		t.Fatalf("unexpected event name %q", opener.EventName)
	}
	if opener.EventDate == nil || !opener.EventDate.Equal(time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected event date %v", opener.EventDate)
	}

	decided := fights[1]
	if decided.WinnerName != "Nassourdine Imavov" {
		t.Fatalf("unexpected winner %q", decided.WinnerName)
	}
	if decided.ResultMethod != "KO/TKO" {
		t.Fatalf("unexpected result method %q", decided.ResultMethod)
	}

	drawn := fights[2]
	if !drawn.IsDraw {
		t.Fatal("expected draw flag")
	}
	if drawn.WinnerName != "" || drawn.ResultMethod != "" {
		t.Fatalf("draw should carry no winner or method, got %q %q", drawn.WinnerName, drawn.ResultMethod)
	}

	main := fights[3]
	if !main.IsMainEvent || main.FightOrder != 1 {
		t.Fatalf("expected last competition as main event, order=%d", main.FightOrder)
	}
	if !main.IsTitleFight {
		t.Fatal("expected title fight")
	}
	if main.ScheduledRounds != 5 {
		t.Fatalf("expected 5 rounds, got=%d", main.ScheduledRounds)
	}
	if main.WeightClass != "Heavyweight" {
		t.Fatalf("unexpected weight class %q", main.WeightClass)
	}
}

func TestFetchFightsEventNameMismatch(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, fixtureHandler())
	fights, err := client.FetchFights(context.Background(), "UFC 999", source.EventFilter{})
	if err != nil {
		t.Fatalf("FetchFights: %v", err)
	}
	if len(fights) != 0 {
		t.Fatalf("expected no fights for unknown event, got=%d", len(fights))
	}
}

func TestFetchFighters(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, fixtureHandler())
	fighters, err := client.FetchFighters(context.Background())
	if err != nil {
		t.Fatalf("FetchFighters: %v", err)
	}
	if len(fighters) != 8 {
		t.Fatalf("expected 8 unique fighters, got=%d", len(fighters))
	}

	byName := make(map[string]source.RawFighter, len(fighters))
	for _, f := range fighters {
		byName[f.FullName()] = f
	}
	jones, ok := byName["Jon Jones"]
	if !ok {
		t.Fatal("expected Jon Jones in card fighters")
	}
	if jones.FirstName != "Jon" || jones.LastName != "Jones" {
		t.Fatalf("unexpected name split %q %q", jones.FirstName, jones.LastName)
	}
	if jones.WeightClass != "Heavyweight" {
		t.Fatalf("unexpected weight class %q", jones.WeightClass)
	}
	if jones.Source != source.TypeESPN {
		t.Fatalf("unexpected source %q", jones.Source)
	}
}

func TestDegradesOnServerError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	events, err := client.FetchEvents(context.Background(), source.EventFilter{})
	if err != nil {
		t.Fatalf("expected degraded fetch to swallow the error, got=%v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got=%d", len(events))
	}
	if client.HealthCheck(context.Background()) {
		t.Fatal("expected health check to fail")
	}
}

func TestTransientStatusError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	client.maxRetries = 0

	var payload scoreboardEnvelope
	err := client.doJSON(context.Background(), "/scoreboard", &payload)
	if err == nil {
		t.Fatal("expected error on 503")
	}
	if !IsTransient(err) {
		t.Fatalf("expected transient error, got=%v", err)
	}
}

func TestPermanentStatusError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	var payload scoreboardEnvelope
	err := client.doJSON(context.Background(), "/scoreboard", &payload)
	if err == nil {
		t.Fatal("expected error on 404")
	}
	if IsTransient(err) {
		t.Fatalf("404 should not be transient, got=%v", err)
	}
}

func TestParseESPNDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"2026-09-12T03:00Z", time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), true},
		{"2026-09-12T03:00:00Z", time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), true},
		{"2026-09-12", time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"not a date", time.Time{}, false},
	}

	for _, tc := range cases {
		got, ok := parseESPNDate(tc.raw)
		if ok != tc.ok {
			t.Fatalf("parseESPNDate(%q) ok=%v want=%v", tc.raw, ok, tc.ok)
		}
		if ok && !got.Equal(tc.want) {
			t.Fatalf("parseESPNDate(%q)=%v want=%v", tc.raw, got, tc.want)
		}
	}
}
