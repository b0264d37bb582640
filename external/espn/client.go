// Package espn fetches event and fight-card data from ESPN's unofficial
// MMA scoreboard API. The API is undocumented and can change shape without
// notice, so every fetch degrades to an empty result instead of failing an
// import run.
package espn

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/prasetyowira/fightcast/internal/domain/source"
	"github.com/prasetyowira/fightcast/internal/platform/logging"
	"github.com/prasetyowira/fightcast/internal/platform/resilience"
	"github.com/prasetyowira/fightcast/internal/transform"
)

const defaultBaseURL = "https://site.api.espn.com/apis/site/v2/sports/mma/ufc"

var numberedEventRegex = regexp.MustCompile(`(?i)ufc\s+\d+`)

// errESPNTransient marks failures worth retrying on a later run: timeouts,
// throttling, upstream 5xx, and open-circuit rejections.
var errESPNTransient = crerr.New("espn transient failure")

// IsTransient reports whether the error came from a temporary upstream
// condition rather than a malformed request or payload.
func IsTransient(err error) bool {
	return crerr.Is(err, errESPNTransient)
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	now            func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (c *Client) SourceType() string {
	return source.TypeESPN
}

// FetchFighters derives fighters from upcoming fight cards. ESPN has no
// usable fighter listing endpoint, so names and weight classes on the card
// are all we get. First occurrence of a name wins.
func (c *Client) FetchFighters(ctx context.Context) ([]source.RawFighter, error) {
	events, err := c.FetchUpcomingEvents(ctx)
	if err != nil {
		return nil, err
	}

	fighters := make([]source.RawFighter, 0, len(events)*24)
	seen := make(map[string]struct{}, len(events)*24)

	for _, event := range events {
		if event.ESPNID == "" {
			continue
		}
		fights, err := c.fetchEventFights(ctx, event.ESPNID)
		if err != nil {
			c.logger.WarnContext(ctx, "espn event card fetch failed, skipping event",
				"event_name", event.Name,
				"espn_id", event.ESPNID,
				"error", err,
			)
			continue
		}
		for _, bout := range fights {
			for _, name := range []string{bout.Fighter1Name, bout.Fighter2Name} {
				key := transform.NormalizeName(name)
				if key == "" {
					continue
				}
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				first, last := splitName(name)
				fighters = append(fighters, source.RawFighter{
					FirstName:   first,
					LastName:    last,
					WeightClass: bout.WeightClass,
					IsActive:    true,
					Source:      source.TypeESPN,
				})
			}
		}
	}

	return fighters, nil
}

// FetchEvents returns events from the scoreboard, which ESPN scopes to the
// current and near-future window. The date filter is applied client side.
func (c *Client) FetchEvents(ctx context.Context, filter source.EventFilter) ([]source.RawEvent, error) {
	var envelope scoreboardEnvelope
	if err := c.doJSON(ctx, "/scoreboard", &envelope); err != nil {
		c.logger.WarnContext(ctx, "espn scoreboard unavailable, returning no events", "error", err)
		return nil, nil
	}

	events := make([]source.RawEvent, 0, len(envelope.Events))
	for _, item := range envelope.Events {
		event, ok := c.parseEvent(item)
		if !ok {
			continue
		}
		if !filter.Contains(event.EventDate) {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

func (c *Client) FetchUpcomingEvents(ctx context.Context) ([]source.RawEvent, error) {
	var envelope scoreboardEnvelope
	if err := c.doJSON(ctx, "/scoreboard", &envelope); err != nil {
		c.logger.WarnContext(ctx, "espn scoreboard unavailable, returning no events", "error", err)
		return nil, nil
	}

	today := dateOnly(c.now())
	events := make([]source.RawEvent, 0, len(envelope.Events))
	for _, item := range envelope.Events {
		event, ok := c.parseEvent(item)
		if !ok {
			continue
		}
		if event.EventDate.Before(today) {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

func (c *Client) FetchFights(ctx context.Context, eventName string, filter source.EventFilter) ([]source.RawFight, error) {
	events, err := c.FetchEvents(ctx, filter)
	if err != nil {
		return nil, err
	}

	fights := make([]source.RawFight, 0, len(events)*12)
	for _, event := range events {
		if eventName != "" && !strings.EqualFold(event.Name, eventName) {
			continue
		}
		if event.ESPNID == "" {
			continue
		}
		card, err := c.fetchEventFights(ctx, event.ESPNID)
		if err != nil {
			c.logger.WarnContext(ctx, "espn event card fetch failed, skipping event",
				"event_name", event.Name,
				"espn_id", event.ESPNID,
				"error", err,
			)
			continue
		}
		eventDate := event.EventDate
		for i := range card {
			card[i].EventName = event.Name
			card[i].EventDate = &eventDate
		}
		fights = append(fights, card...)
	}
	return fights, nil
}

func (c *Client) HealthCheck(ctx context.Context) bool {
	var envelope scoreboardEnvelope
	return c.doJSON(ctx, "/scoreboard", &envelope) == nil
}

// fetchEventFights loads the per-event scoreboard. ESPN lists competitions
// prelims-first, so the last entry is the main event and fight order counts
// down from the top of the card.
func (c *Client) fetchEventFights(ctx context.Context, eventID string) ([]source.RawFight, error) {
	var envelope scoreboardEnvelope
	if err := c.doJSON(ctx, "/scoreboard/"+eventID, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Events) == 0 {
		return nil, nil
	}

	competitions := envelope.Events[0].Competitions
	fights := make([]source.RawFight, 0, len(competitions))
	for i, comp := range competitions {
		bout, ok := parseFight(comp, len(competitions)-i)
		if !ok {
			continue
		}
		fights = append(fights, bout)
	}
	return fights, nil
}

func (c *Client) parseEvent(item eventPayload) (source.RawEvent, bool) {
	name := strings.TrimSpace(item.Name)
	eventDate, ok := parseESPNDate(item.Date)
	if name == "" || !ok {
		return source.RawEvent{}, false
	}

	event := source.RawEvent{
		Name:        name,
		EventDate:   eventDate,
		IsCompleted: item.Status.Type.Completed,
		ESPNID:      strings.TrimSpace(item.ID),
		Source:      source.TypeESPN,
	}

	if len(item.Competitions) > 0 {
		venue := item.Competitions[0].Venue
		event.Venue = strings.TrimSpace(venue.FullName)
		event.City = strings.TrimSpace(venue.Address.City)
		event.State = strings.TrimSpace(venue.Address.State)
		event.Country = strings.TrimSpace(venue.Address.Country)
	}

	lower := strings.ToLower(name)
	switch {
	case numberedEventRegex.MatchString(lower):
		event.EventType = source.EventTypeNumbered
	case strings.Contains(lower, "fight night"):
		event.EventType = source.EventTypeFightNight
	}

	return event, true
}

func parseFight(comp competitionPayload, fightOrder int) (source.RawFight, bool) {
	if len(comp.Competitors) < 2 {
		return source.RawFight{}, false
	}

	fighter1 := strings.TrimSpace(comp.Competitors[0].Athlete.DisplayName)
	fighter2 := strings.TrimSpace(comp.Competitors[1].Athlete.DisplayName)
	if fighter1 == "" || fighter2 == "" {
		return source.RawFight{}, false
	}

	typeText := strings.TrimSpace(comp.Type.Text)
	weightClass := transform.NormalizeWeightClass(typeText)
	if weightClass == "" {
		weightClass = "Unknown"
	}

	isTitle := strings.Contains(strings.ToLower(typeText), "title")
	isMain := fightOrder == 1
	rounds := 3
	if isTitle || isMain {
		rounds = 5
	}

	bout := source.RawFight{
		Fighter1Name:    fighter1,
		Fighter2Name:    fighter2,
		WeightClass:     weightClass,
		IsTitleFight:    isTitle,
		IsMainEvent:     isMain,
		ScheduledRounds: rounds,
		FightOrder:      fightOrder,
		Source:          source.TypeESPN,
	}

	if comp.Status.Type.Completed {
		for _, competitor := range comp.Competitors {
			if competitor.Winner {
				bout.WinnerName = strings.TrimSpace(competitor.Athlete.DisplayName)
				break
			}
		}
		detail := strings.TrimSpace(comp.Status.Type.Detail)
		lower := strings.ToLower(detail)
		switch {
		case strings.Contains(lower, "draw"):
			bout.IsDraw = true
		case strings.Contains(lower, "no contest"):
			bout.IsNoContest = true
		case detail != "":
			bout.ResultMethod = detail
		}
	}

	return bout, true
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", c.breaker.State())
			return crerr.Mark(crerr.New("espn api is temporarily unavailable"), errESPNTransient)
		}
	}

	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, c.baseURL+path)
		if c.circuitEnabled {
			if reqErr != nil {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return crerr.Newf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrap(err, "decode espn payload")
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, crerr.Wrap(err, "build request")
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("user-agent", "fightcast/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Mark(crerr.Wrap(err, "send request"), errESPNTransient)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Wrap(readErr, "read response body")
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Mark(crerr.Newf("espn status=%d", resp.StatusCode), errESPNTransient)
			default:
				return nil, crerr.Newf("espn status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.Mark(crerr.New("espn request failed"), errESPNTransient)
	}
	c.logger.WarnContext(ctx, "espn request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// parseESPNDate accepts the ISO shapes the scoreboard emits and collapses
// them to a UTC date.
func parseESPNDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04Z07:00",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return dateOnly(parsed.UTC()), true
		}
	}
	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func splitName(full string) (string, string) {
	parts := strings.Fields(strings.TrimSpace(full))
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
