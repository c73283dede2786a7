// Package intent turns free-text Japanese weather queries into structured
// intents, inheriting missing slots from the conversation context.
package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Hiro-Kanda/AeroCast-Engine/internal/common"
)

// Intent is a parsed weather query. DayOffset 0 means "now".
type Intent struct {
	City      string
	DayOffset int // 0..5
}

// Context carries slots inherited from earlier turns in the same session.
type Context struct {
	City string
	Days *int
}

// MaxDayOffset bounds forecast lookups to the upstream free-tier horizon.
const MaxDayOffset = 5

var triggerWords = []string{
	"天気",
	"予報",
	"雨",
	"気温",
	"暑い",
	"寒い",
}

var noiseWords = []string{
	"の",
	"を",
	"について",
	"教えて",
	"教えてください",
	"おしえて",
	"おしえてください",
	"ください",
	"下さい",
	"知りたい",
	"は",
	"って",
}

// timeWords lists every recognized time expression, longest first so that
// sequential stripping never leaves fragments behind.
var timeWords = []string{
	"明々後日",
	"明後日",
	"明日",
	"今日",
	"あさって",
	"あした",
	"しゅうまつ",
	"週末",
}

var (
	daysLaterPattern = regexp.MustCompile(`(\d+)日後`)
	punctPattern     = regexp.MustCompile(`[?？!！。、]`)
	spacePattern     = regexp.MustCompile(`\s+`)
)

// Parser resolves user text into weather intents.
type Parser struct {
	now func() time.Time
}

// NewParser creates a Parser using the wall clock.
func NewParser() *Parser {
	return &Parser{now: time.Now}
}

// Resolve parses text with context fallback. It returns nil when the text is
// not a weather query (no trigger word and no prior context), when an
// explicit numeric day offset is out of range, or when no city can be
// determined even from context.
func (p *Parser) Resolve(text string, ctx Context) *Intent {
	text = strings.TrimSpace(text)

	// A follow-up turn like 「明日は？」 is allowed to skip the trigger
	// words as long as the session already knows a city.
	if !common.HasAny(text, triggerWords...) && ctx.City == "" {
		return nil
	}

	days, found := p.explicitDays(text)
	if found {
		if days < 0 || days > MaxDayOffset {
			return nil
		}
	} else if ctx.Days != nil {
		days = *ctx.Days
	} else {
		days = 0
	}

	city := extractCity(text)
	if city == "" {
		city = ctx.City
	}
	if city == "" {
		return nil
	}

	return &Intent{City: city, DayOffset: days}
}

// explicitDays extracts an explicit day offset from the text. The relative
// day words win over the numeric 「N日後」 pattern. The second return value
// is false when the text carries no explicit time expression.
func (p *Parser) explicitDays(text string) (int, bool) {
	switch {
	case strings.Contains(text, "今日"):
		return 0, true
	case strings.Contains(text, "明日"), strings.Contains(text, "あした"):
		return 1, true
	case strings.Contains(text, "明後日"), strings.Contains(text, "あさって"):
		return 2, true
	case strings.Contains(text, "明々後日"):
		return 3, true
	case strings.Contains(text, "週末"), strings.Contains(text, "しゅうまつ"):
		return p.daysToWeekend(), true
	}

	if m := daysLaterPattern.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		return n, true
	}

	return 0, false
}

// jst anchors relative-day arithmetic to Japan regardless of the host zone.
var jst = time.FixedZone("JST", 9*60*60)

// daysToWeekend returns the offset to the coming Saturday, capped at the
// forecast horizon. On a Saturday it resolves to today.
func (p *Parser) daysToWeekend() int {
	// Monday=0 .. Sunday=6, so Saturday is 5.
	weekday := (int(p.now().In(jst).Weekday()) + 6) % 7
	days := (5 - weekday + 7) % 7
	if days > MaxDayOffset {
		days = MaxDayOffset
	}
	return days
}

// extractCity strips every recognized time, trigger, and noise word plus
// punctuation; whatever survives is the city.
func extractCity(text string) string {
	city := text

	for _, w := range timeWords {
		city = strings.ReplaceAll(city, w, "")
	}
	city = daysLaterPattern.ReplaceAllString(city, "")

	for _, w := range triggerWords {
		city = strings.ReplaceAll(city, w, "")
	}
	for _, w := range noiseWords {
		city = strings.ReplaceAll(city, w, "")
	}

	city = punctPattern.ReplaceAllString(city, "")
	city = spacePattern.ReplaceAllString(city, "")

	return strings.TrimSpace(city)
}
