// Package ufcweb scrapes ufc.com event pages. It is the fallback card
// source for upcoming events whose bouts the ESPN scoreboard does not list
// yet. Scraping is kept minimal: the events listing plus one page per event.
package ufcweb

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"

	"github.com/prasetyowira/fightcast/internal/domain/source"
	"github.com/prasetyowira/fightcast/internal/platform/logging"
	"github.com/prasetyowira/fightcast/internal/platform/resilience"
	"github.com/prasetyowira/fightcast/internal/transform"
)

const defaultBaseURL = "https://www.ufc.com"

var (
	titleSuffixRegex   = regexp.MustCompile(`\s*\|.*$`)
	longDateRegex      = regexp.MustCompile(`(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},\s+\d{4}`)
	numberedEventRegex = regexp.MustCompile(`(?i)ufc\s+\d+`)
	numberedSlugRegex  = regexp.MustCompile(`(?i)ufc\s*(\d+)`)
	eventHrefRegex     = regexp.MustCompile(`/event/(ufc-\d+)`)
	rankingRegex       = regexp.MustCompile(`#\d+\s*`)
	caseBoundaryRegex  = regexp.MustCompile(`([a-z])([A-Z])`)
)

// errUFCWebTransient marks failures worth retrying on a later run.
var errUFCWebTransient = crerr.New("ufc.com transient failure")

// IsTransient reports whether the error came from a temporary upstream
// condition rather than a page we could not parse.
func IsTransient(err error) bool {
	return crerr.Is(err, errUFCWebTransient)
}

var weightClassKeywords = []string{
	"flyweight", "bantamweight", "featherweight",
	"lightweight", "welterweight", "middleweight",
	"heavyweight", "strawweight",
}

// navigationLines are menu items that show up in the extracted page text and
// would otherwise sit next to fighter names.
var navigationLines = map[string]struct{}{
	"home": {}, "news": {}, "watch": {}, "athletes": {}, "rankings": {}, "events": {},
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
	return source.TypeUFCWeb
}

// FetchFighters is not supported. Fighters only appear on the site inside
// fight cards, which the import path extracts from FetchFightCard results.
func (c *Client) FetchFighters(ctx context.Context) ([]source.RawFighter, error) {
	return nil, nil
}

// FetchEvents is not supported. The scraper targets specific events rather
// than a browsable history.
func (c *Client) FetchEvents(ctx context.Context, filter source.EventFilter) ([]source.RawEvent, error) {
	return nil, nil
}

// FetchFights is not supported at the listing level. Use FetchFightCard
// with an event name or slug.
func (c *Client) FetchFights(ctx context.Context, eventName string, filter source.EventFilter) ([]source.RawFight, error) {
	return nil, nil
}

func (c *Client) FetchUpcomingEvents(ctx context.Context) ([]source.RawEvent, error) {
	doc, err := c.fetchDocument(ctx, "/events")
	if err != nil {
		c.logger.WarnContext(ctx, "ufc.com events listing unavailable", "error", err)
		return nil, nil
	}

	today := dateOnly(c.now())
	seen := make(map[string]struct{}, 16)
	events := make([]source.RawEvent, 0, 16)

	doc.Find(`a[href*="/event/ufc-"]`).Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		match := eventHrefRegex.FindStringSubmatch(href)
		if match == nil {
			return
		}
		slug := match[1]
		if _, ok := seen[slug]; ok {
			return
		}
		seen[slug] = struct{}{}

		event, err := c.FetchEventBySlug(ctx, slug)
		if err != nil || event == nil {
			return
		}
		if event.EventDate.Before(today) {
			return
		}
		events = append(events, *event)
	})

	return events, nil
}

// FetchEventBySlug loads a single event page, e.g. slug "ufc-324".
func (c *Client) FetchEventBySlug(ctx context.Context, slug string) (*source.RawEvent, error) {
	sourceURL := c.baseURL + "/event/" + slug
	doc, err := c.fetchDocument(ctx, "/event/"+slug)
	if err != nil {
		c.logger.WarnContext(ctx, "ufc.com event page unavailable", "slug", slug, "error", err)
		return nil, nil
	}
	return parseEventPage(doc, slug, sourceURL), nil
}

// FetchFightCard scrapes the bout list for one event. Accepts either a slug
// ("ufc-324") or an event name a slug can be derived from ("UFC 324:
// Gaethje vs Pimblett"). Fight Night slugs cannot be guessed from the name.
func (c *Client) FetchFightCard(ctx context.Context, eventNameOrSlug string) ([]source.RawFight, error) {
	slug := strings.TrimSpace(eventNameOrSlug)
	if !strings.HasPrefix(slug, "ufc-") {
		slug = eventNameToSlug(eventNameOrSlug)
		if slug == "" {
			return nil, nil
		}
	}

	doc, err := c.fetchDocument(ctx, "/event/"+slug)
	if err != nil {
		c.logger.WarnContext(ctx, "ufc.com event page unavailable", "slug", slug, "error", err)
		return nil, nil
	}
	return parseFightCard(doc, slug), nil
}

func (c *Client) HealthCheck(ctx context.Context) bool {
	_, err := c.fetchDocument(ctx, "/events")
	return err == nil
}

func parseEventPage(doc *goquery.Document, slug, sourceURL string) *source.RawEvent {
	name := strings.TrimSpace(doc.Find("h1").First().Text())
	if name == "" {
		name = strings.TrimSpace(doc.Find("title").First().Text())
	}
	name = strings.TrimSpace(titleSuffixRegex.ReplaceAllString(name, ""))
	if name == "" {
		return nil
	}

	eventDate, ok := parseUFCDate(doc.Find(`[class*="date"]`).First().Text())
	if !ok {
		// Fall back to the first long-form date anywhere on the page.
		eventDate, ok = parseUFCDate(longDateRegex.FindString(doc.Text()))
	}
	if !ok {
		return nil
	}

	event := &source.RawEvent{
		Name:      name,
		EventDate: eventDate,
		UFCID:     slug,
		Source:    source.TypeUFCWeb,
		SourceURL: sourceURL,
	}

	venueText := strings.TrimSpace(doc.Find(`[class*="venue"], [class*="location"]`).First().Text())
	if venueText != "" {
		parts := strings.Split(venueText, ",")
		event.Venue = strings.TrimSpace(parts[0])
		if len(parts) >= 2 {
			event.City = strings.TrimSpace(parts[1])
		}
		if len(parts) >= 3 {
			event.Country = strings.TrimSpace(parts[len(parts)-1])
		}
	}

	lower := strings.ToLower(name)
	switch {
	case numberedEventRegex.MatchString(lower):
		event.EventType = source.EventTypeNumbered
	case strings.Contains(lower, "fight night"):
		event.EventType = source.EventTypeFightNight
	}

	return event
}

// parseFightCard scans the page text for "name / vs / name" line triples.
// The site renders bout rows from markup that changes often, so text
// scanning survives redesigns better than selectors tied to class names.
func parseFightCard(doc *goquery.Document, slug string) []source.RawFight {
	var eventName string
	var eventDate *time.Time
	if event := parseEventPage(doc, slug, ""); event != nil {
		eventName = event.Name
		day := event.EventDate
		eventDate = &day
	}

	lines := cleanLines(textLines(doc.Selection))
	candidates := scanBouts(lines, eventName, eventDate)

	// Pages repeat matchups across hero, card and promo sections. Keep the
	// first occurrence of each unordered surname pair and drop rows where a
	// name did not survive extraction intact.
	unique := make([]source.RawFight, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, bout := range candidates {
		if len(strings.Fields(bout.Fighter1Name)) < 2 || len(strings.Fields(bout.Fighter2Name)) < 2 {
			continue
		}
		last1 := lastName(bout.Fighter1Name)
		last2 := lastName(bout.Fighter2Name)
		if last1 == "" || last2 == "" || last1 == last2 {
			continue
		}
		key := matchupKey(last1, last2)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, bout)
	}

	total := len(unique)
	for i := range unique {
		unique[i].FightOrder = total - i
		unique[i].IsMainEvent = unique[i].FightOrder == 1
		if unique[i].IsMainEvent || unique[i].IsTitleFight {
			unique[i].ScheduledRounds = 5
		}
	}

	return unique
}

func scanBouts(lines []string, eventName string, eventDate *time.Time) []source.RawFight {
	fights := make([]source.RawFight, 0, 16)
	order := 0

	i := 0
	for i < len(lines)-2 {
		if !strings.EqualFold(lines[i+1], "vs") {
			i++
			continue
		}

		fighter1 := repairName(lines[i])
		fighter2 := repairName(lines[i+2])
		if len(fighter1) < 3 || len(fighter2) < 3 {
			i++
			continue
		}

		weightClass := "Unknown"
		isTitle := false
		for j := maxInt(0, i-3); j < minInt(len(lines), i+5); j++ {
			lower := strings.ToLower(lines[j])
			if !containsAny(lower, weightClassKeywords) {
				continue
			}
			if wc := transform.NormalizeWeightClass(lines[j]); wc != "" {
				weightClass = wc
			}
			isTitle = strings.Contains(lower, "title")
			break
		}

		rounds := 3
		if isTitle {
			rounds = 5
		}

		order++
		fights = append(fights, source.RawFight{
			Fighter1Name:    fighter1,
			Fighter2Name:    fighter2,
			WeightClass:     weightClass,
			EventName:       eventName,
			EventDate:       eventDate,
			IsTitleFight:    isTitle,
			ScheduledRounds: rounds,
			FightOrder:      order,
			Source:          source.TypeUFCWeb,
		})
		i += 3
	}

	return fights
}

// repairName strips ranking badges and restores the space the text
// extraction loses between adjacent spans ("JustinGaethje").
func repairName(raw string) string {
	name := rankingRegex.ReplaceAllString(raw, "")
	name = caseBoundaryRegex.ReplaceAllString(name, "$1 $2")
	return strings.TrimSpace(name)
}

// textLines walks the document and returns each text node as its own line,
// top to bottom.
func textLines(s *goquery.Selection) []string {
	var out []string
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "#text":
			if text := strings.TrimSpace(child.Text()); text != "" {
				out = append(out, text)
			}
		case "script", "style", "#comment":
		default:
			out = append(out, textLines(child)...)
		}
	})
	return out
}

func cleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if len(line) < 2 {
			continue
		}
		if _, ok := navigationLines[strings.ToLower(line)]; ok {
			continue
		}
		out = append(out, line)
	}
	return out
}

func parseUFCDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}

	layouts := []string{
		"Jan 2, 2006",
		"January 2, 2006",
		"2006-01-02",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return dateOnly(parsed), true
		}
	}
	return time.Time{}, false
}

func eventNameToSlug(eventName string) string {
	match := numberedSlugRegex.FindStringSubmatch(eventName)
	if match == nil {
		return ""
	}
	return "ufc-" + match[1]
}

func lastName(full string) string {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(full)))
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

func matchupKey(last1, last2 string) string {
	if last1 > last2 {
		last1, last2 = last2, last1
	}
	return last1 + "|" + last2
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

func (c *Client) fetchDocument(ctx context.Context, path string) (*goquery.Document, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "ufc.com circuit breaker rejected request", "state", c.breaker.State())
			return nil, crerr.Mark(crerr.New("ufc.com is temporarily unavailable"), errUFCWebTransient)
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
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, crerr.Newf("unexpected response payload type %T", out)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		return nil, crerr.Wrap(err, "parse ufc.com page")
	}
	return doc, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, crerr.Wrap(err, "build request")
		}
		req.Header.Set("accept", "text/html,application/xhtml+xml,application/xml")
		req.Header.Set("accept-language", "en-US,en;q=0.9")
		req.Header.Set("user-agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Mark(crerr.Wrap(err, "send request"), errUFCWebTransient)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Wrap(readErr, "read response body")
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Mark(crerr.Newf("ufc.com status=%d", resp.StatusCode), errUFCWebTransient)
			default:
				return nil, crerr.Newf("ufc.com status=%d", resp.StatusCode)
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
		lastErr = crerr.Mark(crerr.New("ufc.com request failed"), errUFCWebTransient)
	}
	c.logger.WarnContext(ctx, "ufc.com request failed", "url", fullURL, "error", lastErr)
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

func dateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
