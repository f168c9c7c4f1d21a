package telegram

import "testing"

func TestParseCommand(t *testing.T) {
	tcs := []struct {
		text string
		ok   bool
		name string
		arg  string
	}{
		{text: "/chat hello", ok: true, name: "chat", arg: "hello"},
		{text: "!chat hello", ok: true, name: "chat", arg: "hello"},
		{text: "/CHAT hello", ok: true, name: "chat", arg: "hello"},
		{text: "/math@lacri_bot 2+2", ok: true, name: "math", arg: "2+2"},
		{text: "/math@Lacri_Bot 2+2", ok: true, name: "math", arg: "2+2"},
		{text: "/math@someone_else 2+2", ok: false},
		{text: "/ping", ok: true, name: "ping"},
		{text: "/weather   Buenos Aires  ", ok: true, name: "weather", arg: "Buenos Aires"},
		{text: "/program\ndef f():\n    pass", ok: true, name: "program", arg: "def f():\n    pass"},
		{text: "/unknown thing", ok: false},
		{text: "!nope", ok: false},
		{text: "hello world", ok: false},
		{text: "", ok: false},
	}

	for _, tc := range tcs {
		cmd, ok := parseCommand(tc.text, "!", "lacri_bot")
		if ok != tc.ok {
			t.Errorf("%q: expected ok=%v, got %v", tc.text, tc.ok, ok)
			continue
		}
		if !ok {
			continue
		}
		if cmd.name != tc.name || cmd.arg != tc.arg {
			t.Errorf("%q: expected (%q, %q), got (%q, %q)", tc.text, tc.name, tc.arg, cmd.name, cmd.arg)
		}
	}
}

func TestParseCommand_CustomPrefix(t *testing.T) {
	cmd, ok := parseCommand(">>math 1/0", ">>", "")
	if !ok || cmd.name != "math" || cmd.arg != "1/0" {
		t.Fatalf("unexpected result: %+v, %v", cmd, ok)
	}

	if _, ok := parseCommand("!math 1", ">>", ""); ok {
		t.Error("default prefix must not match a custom one")
	}
}
