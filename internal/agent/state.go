package agent

import "github.com/Hiro-Kanda/AeroCast-Engine/internal/weather"

// Action is the next step the orchestrator takes for a turn.
type Action string

const (
	ActionParseIntent      Action = "parse_intent"
	ActionValidate         Action = "validate"
	ActionAskClarification Action = "ask_clarification"
	ActionFetchWeather     Action = "fetch_weather"
	ActionFormat           Action = "format"
	ActionDone             Action = "done"
)

// State is the per-turn scratchpad. It is created fresh for every turn and
// discarded at the end; nothing in it is persisted.
type State struct {
	UserInput string

	City        string
	Days        *int
	IntentLabel string

	Fact *weather.Fact

	NeedClarification     bool
	ClarificationQuestion string

	Errors []string
	Steps  []Action
}
