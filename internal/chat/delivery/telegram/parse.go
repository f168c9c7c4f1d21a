package telegram

import "strings"

type command struct {
	name string
	arg  string
}

// parseCommand recognises "/name[@bot] arg" and "<prefix>name arg". Slash
// commands addressed to another bot and unknown names are not commands.
func parseCommand(text, prefix, botUsername string) (command, bool) {
	text = strings.TrimSpace(text)

	var rest string
	switch {
	case strings.HasPrefix(text, "/"):
		rest = text[1:]
	case prefix != "" && strings.HasPrefix(text, prefix):
		rest = text[len(prefix):]
	default:
		return command{}, false
	}

	name, arg, _ := strings.Cut(rest, " ")
	if i := strings.IndexAny(name, "\n\t"); i >= 0 {
		arg = name[i+1:] + " " + arg
		name = name[:i]
	}

	if at := strings.IndexByte(name, '@'); at >= 0 {
		target := name[at+1:]
		if botUsername != "" && !strings.EqualFold(target, botUsername) {
			return command{}, false
		}
		name = name[:at]
	}

	name = strings.ToLower(name)
	if !knownCommands[name] {
		return command{}, false
	}
	return command{name: name, arg: strings.TrimSpace(arg)}, true
}
