package mindmap

import (
	"fmt"
	"strings"

	"github.com/yungbote/sutra-starters/internal/llm"
)

var instructions = map[string]string{
	"English":    "Create a hierarchical mindmap in English",
	"Hindi":      "हिंदी में एक श्रेणीबद्ध माइंडमैप बनाएं",
	"Gujarati":   "ગુજરાતીમાં એક વિભાજિત માઇન્ડમેપ બનાવો",
	"Bengali":    "বাংলায় একটি শ্রেণিবদ্ধ মাইণ্ডমেপ তৈরি করুন",
	"Tamil":      "தமிழில் ஒரு படிநிலை மனவரைபடத்தை உருவாக்கவும்",
	"Telugu":     "తెలుగులో ఒక శ్రేణీకృత మైండ్ మ్యాప్‌ని సృష్టించండి",
	"Kannada":    "ಕನ್ನಡದಲ್ಲಿ ಒಂದು ಶ್ರೇಣೀಕೃತ ಮನಸ್ಸಿನ ನಕ್ಷೆಯನ್ನು ರಚಿಸಿ",
	"Malayalam":  "മലയാളത്തിൽ ഒരു ശ്രേണീകൃത മൈൻഡ് മാപ്പ് സൃഷ്ടിക്കുക",
	"Punjabi":    "ਪੰਜਾਬੀ ਵਿੱਚ ਇੱਕ ਲੜੀਬੱਧ ਮਾਈਂਡ ਮੈਪ ਬਣਾਓ",
	"Marathi":    "मराठीमध्ये एक श्रेणीबद्ध माइंडमॅप तयार करा",
	"Assamese":   "অসমীয়াত এটা শ্ৰেণীবদ্ধ মাইণ্ডমেপ সৃষ্টি কৰক",
	"Odia":       "ଓଡ଼ିଆରେ ଏକ ଶ୍ରେଣୀବଦ୍ଧ ମାଇଣ୍ଡମ୍ୟାପ୍ ସୃଷ୍ଟି କରନ୍ତୁ",
	"Sanskrit":   "संस्कृतभाषायां श्रेणीबद्धं मनःमानचित्रं निर्माणं कुरुत",
	"French":     "Créez une carte mentale hiérarchique en français",
	"German":     "Erstellen Sie eine hierarchische Mindmap auf Deutsch",
	"Spanish":    "Crea un mapa mental jerárquico en español",
	"Portuguese": "Crie um mapa mental hierárquico em português",
	"Russian":    "Создайте иерархическую карту мыслей на русском языке",
	"Chinese":    "用中文创建一个分层思维导图",
	"Vietnamese": "Tạo một sơ đồ tư duy phân cấp bằng tiếng Việt",
	"Thai":       "สร้างแผนที่ความคิดแบบลำดับชั้นเป็นภาษาไทย",
	"Indonesian": "Buat peta pikiran hierarkis dalam bahasa Indonesia",
	"Turkish":    "Türkçe'de hiyerarşik bir zihin haritası oluşturun",
	"Polish":     "Utwórz hierarchiczną mapę myśli po polsku",
	"Ukrainian":  "Створіть ієрархічну карту думок українською мовою",
	"Dutch":      "Maak een hiërarchische mindmap in het Nederlands",
	"Italian":    "Crea una mappa mentale gerarchica in italiano",
	"Greek":      "Δημιουργήστε ένα ιεραρχικό χάρτη σκέψης στα ελληνικά",
	"Swedish":    "Skapa en hierarkisk tankekarta på svenska",
	"Norwegian":  "Lag et hierarkisk tankekart på norsk",
	"Danish":     "Opret et hierarkisk tankekort på dansk",
	"Finnish":    "Luo hierarkkinen ajatuskartta suomeksi",
	"Czech":      "Vytvořte hierarchickou myšlenkovou mapu v češtině",
	"Hungarian":  "Készítsen hierarchikus gondolatképet magyarul",
	"Romanian":   "Creați o hartă mentală ierarhică în limba română",
	"Bulgarian":  "Създайте йерархична мисловна карта на български",
	"Croatian":   "Stvorite hijerarhijsku mapu uma na hrvatskom jeziku",
	"Serbian":    "Направите хијерархијску мапу ума на српском језику",
	"Slovak":     "Vytvorte hierarchickú myšlienkovú mapu v slovenčine",
	"Slovenian":  "Ustvarite hierarhično miselno karto v slovenščini",
	"Estonian":   "Looge hierarhiline mõttekaart eesti keeles",
	"Latvian":    "Izveidojiet hierarhisku prāta karti latviešu valodā",
	"Lithuanian": "Sukurkite hierarchinę minties žemėlapį lietuvių kalba",
	"Malay":      "Buat peta minda hierarki dalam bahasa Melayu",
	"Tagalog":    "Gumawa ng hierarchical mind map sa Tagalog",
	"Swahili":    "Unda ramani ya akili ya kihierarkia kwa Kiswahili",
}

// Instruction is the opening line of the chunk prompt, written in the target language when known.
func Instruction(language string) string {
	if s, ok := instructions[language]; ok {
		return s
	}
	return "Create a hierarchical mindmap in " + language
}

const formatRules = `IMPORTANT FORMATTING RULES:
- Use proper markdown heading syntax (# for main topics, ## for subtopics, ### for details, #### for sub-details)
- Focus on the main concepts, key ideas, and their relationships
- Include relevant details and connections between ideas
- Keep the structure clean, organized, and logical
- Use bullet points (-) for listing key points under each heading
- Ensure the mindmap flows naturally from general to specific concepts
- Maximum depth of 4 levels (# to ####)

FORMAT EXAMPLE:
# Main Topic 1
## Subtopic 1.1
### Detail 1.1.1
- Key point 1
- Key point 2
#### Sub-detail 1.1.1.1
### Detail 1.1.2
- Key point 1
## Subtopic 1.2

# Main Topic 2
## Subtopic 2.1
### Detail 2.1.1`

func chunkMessages(language, text string, index, total int) []llm.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "%s from the following text content.\n\n", Instruction(language))
	b.WriteString(formatRules)
	fmt.Fprintf(&b, "\n\nText to analyze: %s\n\n", text)
	fmt.Fprintf(&b, "Respond ONLY with the markdown mindmap structure in %s, no additional explanations or text.", language)
	if total > 1 {
		fmt.Fprintf(&b, "\n\nNote: This is chunk %d of %d. Focus on the main concepts in this section.", index+1, total)
	}
	return []llm.Message{
		llm.System(fmt.Sprintf("You are an expert in creating structured mindmaps in %s. "+
			"Create clear, hierarchical mindmaps using proper markdown formatting.", language)),
		llm.User(b.String()),
	}
}

// sections labels each outline "SECTION i:" (1-based) for the merge prompt.
func sections(outlines []string) string {
	parts := make([]string, len(outlines))
	for i, o := range outlines {
		parts[i] = fmt.Sprintf("SECTION %d:\n%s", i+1, o)
	}
	return strings.Join(parts, "\n\n")
}

func mergeMessages(language string, outlines []string) []llm.Message {
	prompt := fmt.Sprintf(`Merge the following mindmap sections into a single, coherent, hierarchical mindmap in %[1]s.

MERGING RULES:
1. Combine similar topics and subtopics
2. Eliminate redundancy while preserving important details
3. Maintain logical hierarchy (# to #### levels)
4. Ensure smooth flow between concepts
5. Keep the structure clean and organized
6. Use proper markdown formatting

CONTENT TO MERGE:
%[2]s

Create a unified mindmap in %[1]s that encompasses all the key concepts from the sections above.
Respond ONLY with the final merged markdown mindmap.`, language, sections(outlines))
	return []llm.Message{
		llm.System(fmt.Sprintf("You are an expert in consolidating and organizing information into coherent mindmaps in %s.", language)),
		llm.User(prompt),
	}
}
