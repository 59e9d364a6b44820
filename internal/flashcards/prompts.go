package flashcards

import (
	"fmt"
	"strings"
)

const studyGuidelines = `Follow these guidelines to create professional-grade flashcards:

1. FRONT SIDE:
   - Clear, concise and precisely worded questions or key terms
   - For concept cards, a specific question that targets one discrete concept
   - Use proper notation, symbols and formatting when applicable

2. BACK SIDE:
   - Complete yet concise answers that directly address the front side
   - Accurate, authoritative definitions from the field
   - Bullet points for multi-part answers when appropriate

3. EXPLANATION:
   - Additional context, examples or memory aids that deepen understanding
   - Connections to other concepts in the field

Create a balanced set covering foundational concepts (30%), key terminology (30%),
important processes (20%) and advanced applications (20%), progressing from
fundamental to more complex concepts.`

func studyPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert educational content creator. Generate a set of %d flashcards on the topic: %s.\n\n", req.Count, req.Topic)
	fmt.Fprintf(&b, "IMPORTANT: Generate all content in %s language with natural phrasing as if written by a native speaker.\n\n", req.Language)
	b.WriteString(studyGuidelines)
	if s := strings.TrimSpace(req.Instructions); s != "" {
		b.WriteString("\n\nAdditional Instructions:\n")
		b.WriteString(s)
	}
	b.WriteString("\n\nRespond with JSON only, in this exact format:\n")
	b.WriteString(`{"title": "descriptive set title", "flashcards": [{"front": "...", "back": "...", "explanation": "..."}]}`)
	return b.String()
}

func vocabPrompt(req VocabRequest) string {
	return fmt.Sprintf(`Create %d flashcards for language learning from %[2]s to %[3]s.
The content focus is on %[4]q.
Use the following text as a basis: %[5]q

For each flashcard, provide:
1. A term or phrase in %[2]s (front)
2. The translation in %[3]s (back)
3. An example sentence using the term (optional)

Format the response as a JSON array of objects with the structure:
[{"id": "1", "front": "term in %[2]s", "back": "translation in %[3]s", "example": "example sentence with translation"}]`,
		req.Count, req.SourceLanguage, req.TargetLanguage, req.Focus, req.Text)
}
