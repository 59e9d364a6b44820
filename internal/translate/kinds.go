package translate

type field struct {
	Name string
	Hint string
	// Limit truncates the value (in runes) before it is sent. Zero sends it whole.
	Limit int
}

// Kind describes which fields of a search result get translated and how.
type Kind struct {
	Name       string
	Specialty  string
	Fields     []field
	Guidelines []string
}

var (
	News = Kind{
		Name:      "news",
		Specialty: "news translation",
		Fields: []field{
			{Name: "title", Hint: "Keep it concise and engaging"},
			{Name: "snippet", Hint: "Maintain the news context and tone"},
			{Name: "source", Hint: "Translate the source name if it has a common translation"},
		},
		Guidelines: []string{
			"Keep any proper nouns (names, places) in their original form",
			"Preserve any numbers, dates, and measurements",
			"Keep any technical terms accurate",
		},
	}
	Jobs = Kind{
		Name:      "jobs",
		Specialty: "job listings translation",
		Fields: []field{
			{Name: "title", Hint: "Keep it concise and job-focused"},
			{Name: "company_name", Hint: "Translate the company name if it has a common translation"},
			{Name: "description", Hint: "Maintain the job requirements and responsibilities context", Limit: 500},
			{Name: "location", Hint: "Translate location information"},
		},
		Guidelines: []string{
			"Keep any technical terms, skills, and requirements in their original form",
			"Preserve any numbers, dates, and measurements",
			"Keep any job-specific terminology accurate",
		},
	}
	Shopping = Kind{
		Name:      "shopping",
		Specialty: "product translation",
		Fields: []field{
			{Name: "title", Hint: "Keep it concise and product-focused"},
			{Name: "source", Hint: "Translate the store name if it has a common translation"},
			{Name: "delivery", Hint: "Translate shipping information"},
		},
		Guidelines: []string{
			"Keep any brand names, sizes, and product codes in their original form",
			"Preserve any numbers, prices, and measurements",
			"Keep any technical terms accurate",
		},
	}
)

func KindByName(name string) (Kind, bool) {
	switch name {
	case "", News.Name:
		return News, true
	case Jobs.Name:
		return Jobs, true
	case Shopping.Name:
		return Shopping, true
	default:
		return Kind{}, false
	}
}
