package mindmap

import "strings"

type Stats struct {
	MainTopics int `json:"main_topics"`
	Subtopics  int `json:"subtopics"`
	Details    int `json:"details"`
	Nodes      int `json:"nodes"`
	MaxDepth   int `json:"max_depth"`
}

// ComputeStats counts markdown headings by level. Nodes also includes bullet points.
func ComputeStats(markdown string) Stats {
	var s Stats
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimRight(line, " \t\r")
		switch {
		case strings.HasPrefix(line, "# "):
			s.MainTopics++
		case strings.HasPrefix(line, "## "):
			s.Subtopics++
		case strings.HasPrefix(line, "### "):
			s.Details++
		}
		if depth := headingDepth(line); depth > 0 {
			s.Nodes++
			s.MaxDepth = max(s.MaxDepth, depth)
			continue
		}
		if t := strings.TrimLeft(line, " \t"); strings.HasPrefix(t, "- ") || strings.HasPrefix(t, "* ") {
			s.Nodes++
		}
	}
	return s
}

func headingDepth(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n >= len(line) || line[n] != ' ' {
		return 0
	}
	return n
}
