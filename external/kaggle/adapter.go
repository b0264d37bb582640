// Package kaggle reads historical fight exports in the wide CSV shape where
// each row carries both fighters' data for one bout. Column names drift
// across dataset vintages, so every logical field resolves through a
// prioritized alias list before falling back to an exact header match.
package kaggle

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/source"
	"github.com/prasetyowira/fightcast/internal/platform/logging"
	"github.com/prasetyowira/fightcast/internal/transform"
)

const defaultFightsFile = "ufc_fights.csv"

// defaultAliases maps logical field names to known column spellings in
// priority order.
var defaultAliases = map[string][]string{
	"r_fighter": {"r_fighter", "red_fighter", "fighter1", "fighter_1"},
	"r_height":  {"r_height", "red_height", "fighter1_height"},
	"r_reach":   {"r_reach", "red_reach", "fighter1_reach"},
	"r_stance":  {"r_stance", "red_stance", "fighter1_stance"},
	"r_dob":     {"r_dob", "red_dob", "fighter1_dob"},

	"b_fighter": {"b_fighter", "blue_fighter", "fighter2", "fighter_2"},
	"b_height":  {"b_height", "blue_height", "fighter2_height"},
	"b_reach":   {"b_reach", "blue_reach", "fighter2_reach"},
	"b_stance":  {"b_stance", "blue_stance", "fighter2_stance"},
	"b_dob":     {"b_dob", "blue_dob", "fighter2_dob"},

	"date":         {"date", "event_date", "fight_date"},
	"event":        {"event", "event_name", "location"},
	"weight_class": {"weight_class", "weightclass", "division"},
	"winner":       {"winner", "result", "fight_winner", "status"},
	"method":       {"method", "win_by", "finish"},
	"round":        {"round", "last_round", "ending_round"},
	"time":         {"time", "last_round_time", "ending_time"},
	"title_bout":   {"title_bout", "title_fight", "is_title"},
}

// statColumns are per-fighter numeric columns worth carrying into the
// bout stat maps for later snapshot seeding.
var statColumns = []string{
	"sig_str_landed",
	"sig_str_attempted",
	"sig_str_acc",
	"total_str_landed",
	"total_str_attempted",
	"td_landed",
	"td_attempted",
	"td_acc",
	"sub_att",
	"rev",
	"ctrl_time",
	"head_landed",
	"body_landed",
	"leg_landed",
	"distance_landed",
	"clinch_landed",
	"ground_landed",
	"ko_wins",
	"sub_wins",
	"wins",
	"losses",
	"draws",
	"current_win_streak",
	"current_lose_streak",
	"avg_sig_str_landed",
	"avg_sig_str_absorbed",
	"sig_str_defense",
	"avg_td_landed",
	"avg_td_absorbed",
	"td_defense",
	"avg_sub_att",
}

var numberedEventRegex = regexp.MustCompile(`ufc\s+\d+`)

// Config wires an Adapter to its dataset on disk.
type Config struct {
	DataDir    string
	FightsFile string
	// ColumnMapping overrides alias resolution per logical field for
	// datasets the default aliases do not cover.
	ColumnMapping map[string]string
	Logger        *logging.Logger
}

// Adapter implements source.Adapter over a historical CSV export.
type Adapter struct {
	dataDir       string
	fightsFile    string
	columnMapping map[string]string
	logger        *logging.Logger
}

func New(cfg Config) *Adapter {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	fightsFile := strings.TrimSpace(cfg.FightsFile)
	if fightsFile == "" {
		fightsFile = defaultFightsFile
	}

	return &Adapter{
		dataDir:       cfg.DataDir,
		fightsFile:    fightsFile,
		columnMapping: cfg.ColumnMapping,
		logger:        logger,
	}
}

func (a *Adapter) SourceType() string {
	return source.TypeHistorical
}

func (a *Adapter) fightsPath() string {
	return filepath.Join(a.dataDir, a.fightsFile)
}

// HealthCheck reports whether the fights file is readable.
func (a *Adapter) HealthCheck(ctx context.Context) bool {
	info, err := os.Stat(a.fightsPath())
	return err == nil && !info.IsDir()
}

func (a *Adapter) column(row map[string]string, key string) string {
	if name, ok := a.columnMapping[key]; ok {
		return row[name]
	}
	for _, name := range defaultAliases[key] {
		if value, ok := row[name]; ok {
			return value
		}
	}
	return row[key]
}

// readRows streams the CSV into per-row maps. A missing or unreadable file
// degrades to no rows; malformed rows are skipped.
func (a *Adapter) readRows(ctx context.Context) []map[string]string {
	f, err := os.Open(a.fightsPath())
	if err != nil {
		a.logger.WarnContext(ctx, "historical dataset unavailable", "path", a.fightsPath(), "error", err)
		return nil
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		a.logger.WarnContext(ctx, "historical dataset has no header row", "path", a.fightsPath(), "error", err)
		return nil
	}
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip the malformed row, keep reading.
			continue
		}

		row := make(map[string]string, len(header))
		for i, value := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = value
		}
		rows = append(rows, row)
	}

	return rows
}

func (a *Adapter) fighterFromRow(row map[string]string, prefix string) source.RawFighter {
	name := strings.TrimSpace(a.column(row, prefix+"_fighter"))
	firstName, lastName := splitName(name)

	var dob *time.Time
	if parsed, ok := parseDate(a.column(row, prefix+"_dob")); ok {
		dob = &parsed
	}

	return source.RawFighter{
		FirstName:   firstName,
		LastName:    lastName,
		HeightCM:    parseHeightToCM(a.column(row, prefix+"_height")),
		ReachCM:     parseReachToCM(a.column(row, prefix+"_reach")),
		Stance:      transform.NormalizeStance(a.column(row, prefix+"_stance")),
		DateOfBirth: dob,
		WeightClass: transform.NormalizeWeightClass(a.column(row, "weight_class")),
		Source:      source.TypeHistorical,
		RawData:     map[string]any{"prefix": prefix},
	}
}

// FetchFighters infers unique fighters from the fight rows, keyed by
// normalized name with the first occurrence winning.
func (a *Adapter) FetchFighters(ctx context.Context) ([]source.RawFighter, error) {
	seen := make(map[string]struct{})
	var fighters []source.RawFighter

	for _, row := range a.readRows(ctx) {
		for _, prefix := range []string{"r", "b"} {
			f := a.fighterFromRow(row, prefix)
			key := transform.NormalizeName(f.FullName())
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			fighters = append(fighters, f)
		}
	}

	return fighters, nil
}

// FetchEvents infers unique events from the fight rows, keyed by name plus
// date.
func (a *Adapter) FetchEvents(ctx context.Context, filter source.EventFilter) ([]source.RawEvent, error) {
	seen := make(map[string]struct{})
	var events []source.RawEvent

	for _, row := range a.readRows(ctx) {
		name := strings.TrimSpace(a.column(row, "event"))
		eventDate, ok := parseDate(a.column(row, "date"))
		if name == "" || !ok {
			continue
		}
		if !filter.Contains(eventDate) {
			continue
		}

		key := name + "_" + eventDate.Format("2006-01-02")
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}

		events = append(events, source.RawEvent{
			Name:        name,
			EventDate:   eventDate,
			EventType:   classifyEventType(name),
			IsCompleted: true,
			Source:      source.TypeHistorical,
		})
	}

	return events, nil
}

// FetchFights parses one fight per row, resolving the winner from either a
// corner indicator or a fighter name.
func (a *Adapter) FetchFights(ctx context.Context, eventName string, filter source.EventFilter) ([]source.RawFight, error) {
	var fights []source.RawFight

	for _, row := range a.readRows(ctx) {
		rowEvent := strings.TrimSpace(a.column(row, "event"))
		if eventName != "" && !strings.EqualFold(rowEvent, eventName) {
			continue
		}

		var eventDate *time.Time
		if parsed, ok := parseDate(a.column(row, "date")); ok {
			if !filter.Contains(parsed) {
				continue
			}
			eventDate = &parsed
		}

		rName := strings.TrimSpace(a.column(row, "r_fighter"))
		bName := strings.TrimSpace(a.column(row, "b_fighter"))
		if rName == "" || bName == "" {
			continue
		}

		method, methodDetail := parseResultMethod(a.column(row, "method"))
		winnerName, isDraw, isNoContest := resolveWinner(a.column(row, "winner"), rName, bName)

		var endingRound *int
		if r, err := strconv.Atoi(strings.TrimSpace(a.column(row, "round"))); err == nil {
			endingRound = &r
		}

		weightClass := transform.NormalizeWeightClass(a.column(row, "weight_class"))
		if weightClass == "" {
			weightClass = "Unknown"
		}

		fights = append(fights, source.RawFight{
			Fighter1Name:       rName,
			Fighter2Name:       bName,
			EventName:          rowEvent,
			EventDate:          eventDate,
			WeightClass:        weightClass,
			IsTitleFight:       parseBool(a.column(row, "title_bout")),
			WinnerName:         winnerName,
			ResultMethod:       method,
			ResultMethodDetail: methodDetail,
			EndingRound:        endingRound,
			EndingTime:         strings.TrimSpace(a.column(row, "time")),
			IsDraw:             isDraw,
			IsNoContest:        isNoContest,
			Fighter1Stats:      a.fighterStats(row, "r"),
			Fighter2Stats:      a.fighterStats(row, "b"),
			Source:             source.TypeHistorical,
		})
	}

	return fights, nil
}

// FetchUpcomingEvents always returns nothing: the dataset is historical.
func (a *Adapter) FetchUpcomingEvents(ctx context.Context) ([]source.RawEvent, error) {
	return nil, nil
}

// fighterStats pulls the per-fighter numeric columns into a stats map.
// Percentage strings are stored as 0-1 fractions.
func (a *Adapter) fighterStats(row map[string]string, prefix string) map[string]float64 {
	stats := make(map[string]float64)

	for _, key := range statColumns {
		for _, column := range []string{prefix + "_" + key, strings.ToUpper(prefix) + "_" + key} {
			raw, ok := row[column]
			if !ok || strings.TrimSpace(raw) == "" {
				continue
			}

			value := strings.TrimSpace(raw)
			if strings.Contains(value, "%") {
				if v, err := strconv.ParseFloat(strings.ReplaceAll(value, "%", ""), 64); err == nil {
					stats[key] = v / 100
				}
			} else if v, err := strconv.ParseFloat(value, 64); err == nil {
				stats[key] = v
			}
			break
		}
	}

	if len(stats) == 0 {
		return nil
	}
	return stats
}

// resolveWinner disambiguates the winner column: corner indicators and
// win/loss tokens map to a corner, draw and no-contest sentinels set their
// flags, a fighter's own name matches either corner, and anything else is
// treated as the winner's literal name.
func resolveWinner(winner, rName, bName string) (winnerName string, isDraw, isNoContest bool) {
	winner = strings.TrimSpace(winner)
	if winner == "" {
		return "", false, false
	}

	switch lower := strings.ToLower(winner); {
	case lower == "draw" || lower == "d":
		return "", true, false
	case lower == "nc" || lower == "no contest":
		return "", false, true
	case lower == "red" || lower == "r" || lower == "win" || strings.EqualFold(winner, rName):
		return rName, false, false
	case lower == "blue" || lower == "b" || lower == "loss" || strings.EqualFold(winner, bName):
		return bName, false, false
	default:
		return winner, false, false
	}
}

func splitName(full string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(full), " ", 2)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

func classifyEventType(name string) string {
	lower := strings.ToLower(name)
	if !strings.Contains(lower, "ufc") {
		return ""
	}
	if numberedEventRegex.MatchString(lower) {
		return source.EventTypeNumbered
	}
	if strings.Contains(lower, "fight night") ||
		strings.Contains(lower, "on espn") ||
		strings.Contains(lower, "on fox") {
		return source.EventTypeFightNight
	}
	return ""
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "t":
		return true
	default:
		return false
	}
}
