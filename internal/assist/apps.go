package assist

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

type FarmerParams struct {
	Category       string `json:"category"`
	Subcategory    string `json:"subcategory"`
	Detail         int    `json:"detail"`
	LocalPractices *bool  `json:"local_practices,omitempty"`
	Scientific     *bool  `json:"scientific_info,omitempty"`
}

type farmerView struct {
	Category, Subcategory   string
	Detail                  int
	LocalPractices, Science bool
}

type SchemeParams struct {
	Scheme       string `json:"scheme"`
	Category     string `json:"category"`
	Benefits     int    `json:"benefits_focus"`
	Eligibility  int    `json:"eligibility_focus"`
	Application  int    `json:"application_focus"`
	Examples     *bool  `json:"include_examples,omitempty"`
	Comparison   bool   `json:"include_comparison"`
	Education    string `json:"education"`
	Familiarity  string `json:"familiarity"`
	LocationType string `json:"location_type"`
}

type schemeView struct {
	SchemeParams
	IncludeExamples bool
}

type TravelParams struct {
	Destination string `json:"destination"`
	Days        int    `json:"days"`
	Theme       string `json:"theme"`
	Budget      string `json:"budget"`
	Preferences string `json:"preferences"`
}

type StoryParams struct {
	Theme      string `json:"theme"`
	AgeGroup   string `json:"age_group"`
	Length     string `json:"length"`
	Characters string `json:"character_type"`
	Setting    string `json:"setting"`
	Moral      string `json:"moral"`
}

type SummarizeParams struct {
	Text            string   `json:"text"`
	SourceLanguage  string   `json:"source_language"`
	Length          string   `json:"length"`
	Style           string   `json:"style"`
	Focus           []string `json:"focus"`
	CleanWhitespace *bool    `json:"clean_whitespace,omitempty"`
	RemoveURLs      *bool    `json:"remove_urls,omitempty"`
	RemoveHTML      *bool    `json:"remove_html,omitempty"`
}

var (
	SummaryLengths = []string{"Very Short", "Short", "Medium", "Detailed", "Comprehensive"}
	SummaryStyles  = []string{"Neutral", "Simplified", "Academic", "Conversational", "Bullet Points"}
	SummaryFocus   = []string{"Key Facts", "Statistics", "Quotes", "Background Context", "Future Implications"}
)

type summarizeView struct {
	Text, SourceLanguage, Length, Style, Focus string
}

func decodeParams[T any](raw json.RawMessage) (T, error) {
	var p T
	if len(raw) == 0 || string(raw) == "null" {
		return p, nil
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return p, nil
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func intOr(v, def, lo, hi int) int {
	if v == 0 {
		v = def
	}
	return min(max(v, lo), hi)
}

func strOr(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

func decodeFarmer(raw json.RawMessage) (any, error) {
	p, err := decodeParams[FarmerParams](raw)
	if err != nil {
		return nil, err
	}
	return farmerView{
		Category:       strOr(p.Category, "General farming"),
		Subcategory:    strOr(p.Subcategory, "General advice"),
		Detail:         intOr(p.Detail, 3, 1, 5),
		LocalPractices: boolOr(p.LocalPractices, true),
		Science:        boolOr(p.Scientific, true),
	}, nil
}

func decodeScheme(raw json.RawMessage) (any, error) {
	p, err := decodeParams[SchemeParams](raw)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Scheme) == "" {
		return nil, fmt.Errorf("%w: scheme is required", ErrInvalidParams)
	}
	p.Category = strOr(p.Category, "General")
	p.Benefits = intOr(p.Benefits, 3, 1, 5)
	p.Eligibility = intOr(p.Eligibility, 3, 1, 5)
	p.Application = intOr(p.Application, 3, 1, 5)
	p.Education = strOr(p.Education, "Intermediate")
	p.Familiarity = strOr(p.Familiarity, "Medium")
	p.LocationType = strOr(p.LocationType, "Rural")
	return schemeView{SchemeParams: p, IncludeExamples: boolOr(p.Examples, true)}, nil
}

func decodeTravel(raw json.RawMessage) (any, error) {
	p, err := decodeParams[TravelParams](raw)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Destination) == "" {
		return nil, fmt.Errorf("%w: destination is required", ErrInvalidParams)
	}
	p.Days = intOr(p.Days, 3, 1, 30)
	p.Theme = strOr(p.Theme, "Family Vacation")
	p.Budget = strOr(p.Budget, "Standard")
	p.Preferences = strOr(p.Preferences, "Relaxing on the beach, exploring historical sites")
	return p, nil
}

func decodeStory(raw json.RawMessage) (any, error) {
	p, err := decodeParams[StoryParams](raw)
	if err != nil {
		return nil, err
	}
	p.Theme = strOr(p.Theme, "Friendship")
	p.AgeGroup = strOr(p.AgeGroup, "6-8 years")
	p.Length = strOr(p.Length, "Short")
	p.Characters = strOr(p.Characters, "Animals")
	p.Setting = strOr(p.Setting, "Forest")
	p.Moral = strOr(p.Moral, "Kindness")
	return p, nil
}

var (
	urlRe   = regexp.MustCompile(`http\S+`)
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// cleanArticle applies the optional preprocessing in the order URLs, whitespace, HTML.
func cleanArticle(text string, urls, space, html bool) string {
	if urls {
		text = urlRe.ReplaceAllString(text, "")
	}
	if space {
		text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
	}
	if html {
		text = tagRe.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

func oneOf(v, def string, allowed []string) (string, error) {
	v = strOr(v, def)
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q is not one of %s", ErrInvalidParams, v, strings.Join(allowed, ", "))
}

func decodeSummarize(raw json.RawMessage) (any, error) {
	p, err := decodeParams[SummarizeParams](raw)
	if err != nil {
		return nil, err
	}
	text := cleanArticle(p.Text, boolOr(p.RemoveURLs, true), boolOr(p.CleanWhitespace, true), boolOr(p.RemoveHTML, true))
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidParams)
	}
	v := summarizeView{Text: text, SourceLanguage: strOr(p.SourceLanguage, "English")}
	if v.Length, err = oneOf(p.Length, "Medium", SummaryLengths); err != nil {
		return nil, err
	}
	if v.Style, err = oneOf(p.Style, "Neutral", SummaryStyles); err != nil {
		return nil, err
	}
	var focus []string
	for _, f := range p.Focus {
		name, err := oneOf(f, "", SummaryFocus)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(focus, name) {
			focus = append(focus, name)
		}
	}
	if len(focus) == 0 {
		focus = []string{"Key Facts"}
	}
	v.Focus = strings.Join(focus, ", ")
	return v, nil
}
