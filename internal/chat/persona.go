package chat

import (
	"fmt"
	"strings"

	"github.com/yungbote/sutra-starters/internal/memory"
)

// Persona shapes the system prompt and sampling for one assistant.
type Persona struct {
	Name        string
	MaxTokens   int
	Temperature float64
	// UsesProfile turns on profile extraction from memory.
	UsesProfile bool
	system      func(p promptInput) string
}

type promptInput struct {
	Language string
	Context  string
	Profile  memory.Profile
}

var (
	Companion = Persona{
		Name:        "companion",
		MaxTokens:   500,
		Temperature: 0.7,
		system: func(in promptInput) string {
			var b strings.Builder
			b.WriteString("You are Sutra, an AI friend and mentor who lives in Pune, India.\n")
			b.WriteString("You enjoy helping people and chatting with them in a human-like, empathetic tone.\n")
			fmt.Fprintf(&b, "Respond kindly, supportively, and personally in %s.\n", in.Language)
			b.WriteString("Avoid generic AI disclaimers like 'I'm just an AI'. Instead, say you're Sutra, their AI friend.\n")
			b.WriteString("Respect emotional context. Give thoughtful, kind responses.")
			if in.Context != "" {
				b.WriteString("\n\nContext from previous conversations:\n")
				b.WriteString(in.Context)
			}
			return b.String()
		},
	}

	Diabetes = Persona{
		Name:        "diabetes",
		MaxTokens:   800,
		Temperature: 0.5,
		UsesProfile: true,
		system: func(in promptInput) string {
			name := orDefault(in.Profile.Name, "the user")
			kind := orDefault(in.Profile.DiabetesType, "unspecified type")
			loc := orDefault(in.Profile.Location, "India")
			var b strings.Builder
			fmt.Fprintf(&b, "You are a diabetes-friendly AI assistant helping %s, a patient from %s diagnosed with %s diabetes.\n", name, loc, kind)
			b.WriteString("Provide helpful, India-specific, diabetes-safe and practical responses. ")
			b.WriteString("Recommend consulting a doctor before medication changes.\n")
			fmt.Fprintf(&b, "Respond in %s.", in.Language)
			if in.Context != "" {
				b.WriteString("\n\nPast memories from previous chats:\n")
				b.WriteString(in.Context)
			}
			return b.String()
		},
	}

	Generic = Persona{
		Name:        "generic",
		MaxTokens:   1024,
		Temperature: 0.7,
		system: func(in promptInput) string {
			s := fmt.Sprintf("You are a helpful assistant. Please respond in %s.", in.Language)
			if in.Context != "" {
				s += "\n\nRelevant earlier conversation:\n" + in.Context
			}
			return s
		},
	}
)

var personas = map[string]Persona{
	Companion.Name: Companion,
	Diabetes.Name:  Diabetes,
	Generic.Name:   Generic,
}

// PersonaByName looks up a built-in persona.
func PersonaByName(name string) (Persona, bool) {
	p, ok := personas[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

func PersonaNames() []string {
	return []string{Companion.Name, Diabetes.Name, Generic.Name}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
