package translate

import "strings"

// Languages are the target languages the hosted model handles.
var Languages = []string{
	"English", "Hindi", "Gujarati", "Bengali", "Tamil",
	"Telugu", "Kannada", "Malayalam", "Punjabi", "Marathi",
	"Urdu", "Assamese", "Odia", "Sanskrit", "Korean",
	"Japanese", "Arabic", "French", "German", "Spanish",
	"Portuguese", "Russian", "Chinese", "Vietnamese", "Thai",
	"Indonesian", "Turkish", "Polish", "Ukrainian", "Dutch",
	"Italian", "Greek", "Hebrew", "Persian", "Swedish",
	"Norwegian", "Danish", "Finnish", "Czech", "Hungarian",
	"Romanian", "Bulgarian", "Croatian", "Serbian", "Slovak",
	"Slovenian", "Estonian", "Latvian", "Lithuanian", "Malay",
	"Tagalog", "Swahili",
}

var supported = func() map[string]bool {
	m := make(map[string]bool, len(Languages))
	for _, l := range Languages {
		m[l] = true
	}
	return m
}()

// IsSupported is an exact, case-sensitive match against Languages.
func IsSupported(language string) bool {
	return supported[language]
}

// NeedsTranslation is false for an empty target or English.
func NeedsTranslation(target string) bool {
	t := strings.TrimSpace(target)
	return t != "" && t != "English"
}
