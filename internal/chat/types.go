package chat

// Skill names a persona with its own provider, model, prompt and history.
type Skill string

const (
	SkillChat    Skill = "chat"
	SkillMath    Skill = "math"
	SkillProgram Skill = "program"
)

// Skills lists every skill in routing order.
var Skills = []Skill{SkillChat, SkillMath, SkillProgram}

// ParseSkill resolves a command name to a Skill.
func ParseSkill(name string) (Skill, bool) {
	for _, s := range Skills {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// HandleInput is one utterance routed to a skill.
type HandleInput struct {
	Skill Skill
	Text  string
	// ExtraContext is appended to the prompt but not stored in history.
	ExtraContext string
}

// HandleOutput is the text to deliver, already split for the transport.
type HandleOutput struct {
	Reply    string
	Chunks   []string
	Fallback bool
}
