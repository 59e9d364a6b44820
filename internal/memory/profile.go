package memory

import (
	"strings"
	"unicode"
)

// Profile holds facts a diabetes assistant pulls out of past conversation.
type Profile struct {
	Name         string `json:"name,omitempty"`
	DiabetesType string `json:"diabetes_type,omitempty"`
	Location     string `json:"location,omitempty"`
}

func (p Profile) Empty() bool { return p == Profile{} }

// ExtractProfile scans entries in order; later mentions win.
func ExtractProfile(entries []Entry) Profile {
	var p Profile
	for _, e := range entries {
		text := strings.ToLower(e.Content)
		if i := strings.LastIndex(text, "name is"); i >= 0 {
			if f := strings.Fields(text[i+len("name is"):]); len(f) > 0 {
				p.Name = capitalize(strings.TrimRightFunc(f[0], unicode.IsPunct))
			}
		}
		if strings.Contains(text, "type 2") {
			p.DiabetesType = "Type 2"
		} else if strings.Contains(text, "type 1") {
			p.DiabetesType = "Type 1"
		}
		if i := strings.LastIndex(text, "live in"); i >= 0 {
			rest := text[i+len("live in"):]
			if j := strings.IndexByte(rest, '.'); j >= 0 {
				rest = rest[:j]
			}
			if loc := strings.TrimSpace(rest); loc != "" {
				p.Location = capitalize(loc)
			}
		}
	}
	return p
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
