// Package agent drives a conversational turn through an action-priority
// loop: parse, validate, clarify, fetch, format.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Hiro-Kanda/AeroCast-Engine/internal/intent"
	"github.com/Hiro-Kanda/AeroCast-Engine/internal/session"
	"github.com/Hiro-Kanda/AeroCast-Engine/internal/weather"
)

// maxSteps bounds the action loop for a single turn.
const maxSteps = 10

// Fixed user-facing messages.
const (
	msgWeatherOnly = "天気に関する質問のみ対応しています。"
	msgAskCity     = "都市名を教えてください。"
	msgFetchFailed = "天気情報の取得に失敗しました。"
	msgGaveUp      = "うまく処理できませんでした。都市名と日付を指定してください。"
)

// Gateway fetches weather facts. Implemented by weather.Gateway.
type Gateway interface {
	FetchWeather(ctx context.Context, city string, days int) (*weather.Fact, error)
}

// Formatter renders a weather report into the final answer text. It must not
// fail; implementations degrade internally.
type Formatter interface {
	Format(ctx context.Context, report weather.Report) string
}

// Agent is the per-process request orchestrator. Callers must serialize
// turns per session key; the agent itself does not arbitrate.
type Agent struct {
	parser    *intent.Parser
	sessions  *session.Store
	gateway   Gateway
	formatter Formatter
}

// New creates an Agent.
func New(sessions *session.Store, gateway Gateway, formatter Formatter) *Agent {
	return &Agent{
		parser:    intent.NewParser(),
		sessions:  sessions,
		gateway:   gateway,
		formatter: formatter,
	}
}

// nextAction decides what to do next from the current turn state, in fixed
// priority order.
func (a *Agent) nextAction(s *State) Action {
	switch {
	case s.IntentLabel == "" || s.Days == nil:
		return ActionParseIntent
	case *s.Days < 0 || *s.Days > intent.MaxDayOffset:
		return ActionValidate
	case s.City == "":
		return ActionAskClarification
	case s.Fact == nil:
		return ActionFetchWeather
	default:
		return ActionFormat
	}
}

// Resolve processes one user turn and returns the user-facing answer. It
// always terminates within the step budget and never returns an error:
// every failure becomes a stable message.
func (a *Agent) Resolve(ctx context.Context, sessionID, userInput string) string {
	conv := a.sessions.Get(sessionID)
	s := &State{UserInput: intent.Normalize(userInput)}

	for i := 0; i < maxSteps; i++ {
		action := a.nextAction(s)
		s.Steps = append(s.Steps, action)

		switch action {
		case ActionParseIntent:
			parsed := a.parser.Resolve(s.UserInput, intent.Context{
				City: conv.LastCity,
				Days: conv.LastDays,
			})
			if parsed == nil {
				return msgWeatherOnly
			}
			s.City = parsed.City
			days := parsed.DayOffset
			s.Days = &days
			s.IntentLabel = "forecast"

			a.sessions.Update(sessionID, s.City, s.Days, s.IntentLabel)

			if s.City == "" {
				s.NeedClarification = true
				s.ClarificationQuestion = msgAskCity
				return s.ClarificationQuestion
			}

		case ActionValidate:
			return fmt.Sprintf("日数は0〜5の範囲で指定してください。現在の値: %d", *s.Days)

		case ActionAskClarification:
			if s.ClarificationQuestion != "" {
				return s.ClarificationQuestion
			}
			return msgAskCity

		case ActionFetchWeather:
			fact, err := a.gateway.FetchWeather(ctx, s.City, *s.Days)
			if err != nil {
				s.Errors = append(s.Errors, err.Error())
				return a.messageFor(err)
			}
			s.Fact = fact

		case ActionFormat:
			report := weather.BuildReport(*s.Fact)
			answer := a.formatter.Format(ctx, report)
			a.sessions.Update(sessionID, s.City, s.Days, s.IntentLabel)
			return answer
		}
	}

	return msgGaveUp
}

// messageFor converts a gateway error into its user-facing message. Typed
// errors carry a stable message; anything unexpected is logged and replaced
// with a generic one so internals never leak outward.
func (a *Agent) messageFor(err error) string {
	var ambiguous *weather.AmbiguousCityError
	var notFound *weather.CityNotFoundError
	var apiErr *weather.APIError

	switch {
	case errors.As(err, &ambiguous):
		return ambiguous.Error()
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.As(err, &apiErr):
		log.Printf("ERROR: weather fetch failed: %v (cause: %v)", apiErr.Message, apiErr.Err)
		return apiErr.Error()
	default:
		log.Printf("ERROR: unexpected failure during weather fetch: %v", err)
		return msgFetchFailed
	}
}
