package translate

import (
	"fmt"
	"strings"
)

const queryPrompt = `You are a professional translator. Translate the following search query to English.

Translation Rules:
1. Keep the translation concise and clear
2. Maintain the search intent
3. Preserve any proper nouns (names, places)
4. Keep any numbers, dates, and measurements
5. Ensure the translation is natural and search-friendly
6. If the query is already in English, return it as is

Return ONLY the translated query without any explanations or additional text.`

func itemPrompt(kind Kind, target string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional translator specializing in %s. Translate the following content to %s.\n\n", kind.Specialty, target)
	b.WriteString("Translation Rules:\n1. Translate ONLY these fields:\n")
	for _, f := range kind.Fields {
		fmt.Fprintf(&b, "   - %s: %s\n", f.Name, f.Hint)
	}
	b.WriteString("\n2. Translation Guidelines:\n   - Ensure natural and fluent language\n   - Maintain the original meaning and context\n")
	for _, g := range kind.Guidelines {
		fmt.Fprintf(&b, "   - %s\n", g)
	}
	b.WriteString("\n3. Return ONLY the translated fields in this exact format:\n{\n")
	for i, f := range kind.Fields {
		sep := ","
		if i == len(kind.Fields)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    %q: \"translated %s\"%s\n", f.Name, strings.ReplaceAll(f.Name, "_", " "), sep)
	}
	b.WriteString("}\n\n4. Important:\n   - Do not add any explanations\n   - Do not modify the JSON structure\n   - Do not translate any other fields\n")
	fmt.Fprintf(&b, "   - Ensure the translation is culturally appropriate for %s speakers", target)
	return b.String()
}
