package telegram

import "time"

const (
	cmdChat    = "chat"
	cmdMath    = "math"
	cmdProgram = "program"
	cmdWeather = "weather"
	cmdPing    = "ping"
	cmdStart   = "start"
	cmdHelp    = "help"

	// Telegram redelivers unacknowledged updates; remember ids long enough to drop repeats.
	seenUpdatesSize = 4096
	seenUpdatesTTL  = 10 * time.Minute

	botMessagesSize = 4096

	startText = `hello. i'm lacri.ai.

i keep a short memory of our conversation and i'm good with words, numbers and code.
type /help to see what i can do.`

	helpText = `commands (or use %[1]s instead of /):
/chat <message> - talk to me
/math <problem> - step by step math
/program <question> - programming help, reply to my answer to keep going
/weather <city> - current weather, analyzed
/ping - check response time`
)

var usageHints = map[string]string{
	cmdChat:    "usage: /chat <message>",
	cmdMath:    "usage: /math <problem>",
	cmdProgram: "usage: /program <question>",
	cmdWeather: "usage: /weather <city>",
}

var knownCommands = map[string]bool{
	cmdChat: true, cmdMath: true, cmdProgram: true, cmdWeather: true,
	cmdPing: true, cmdStart: true, cmdHelp: true,
}
