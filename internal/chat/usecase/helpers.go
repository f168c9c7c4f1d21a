package usecase

import "strings"

const (
	codeFence     = "```"
	codeFenceOpen = "```python"
)

// codeLinePrefixes mark a line as the start of a code block.
var codeLinePrefixes = []string{
	"def ", "class ", "if ", "for ", "while ", "import ", "from ", "return ",
	"#", "//", "/*", "{", "}",
}

// FormatCode wraps code-looking runs of lines in fences. Text that already has
// a fence is returned unchanged. This is a line heuristic, not a parser.
func FormatCode(text string) string {
	if strings.Contains(text, codeFence) {
		return text
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines)+4)
	inCode := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case !inCode && looksLikeCode(trimmed):
			out = append(out, codeFenceOpen)
			inCode = true
		case inCode && trimmed == "":
			out = append(out, codeFence)
			inCode = false
		}
		out = append(out, line)
	}
	if inCode {
		out = append(out, codeFence)
	}

	return strings.Join(out, "\n")
}

func looksLikeCode(trimmed string) bool {
	for _, p := range codeLinePrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

// Chunk splits text into consecutive pieces of at most size runes.
func Chunk(text string, size int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		return []string{text}
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
