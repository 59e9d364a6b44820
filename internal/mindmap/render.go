package mindmap

import (
	"bytes"
	"html/template"
	"io"
)

// FontFamily picks a CSS font stack that covers the language's script.
func FontFamily(language string) string {
	switch language {
	case "Hindi", "Sanskrit", "Marathi", "Gujarati":
		return "Noto Sans Devanagari, Arial, sans-serif"
	case "Arabic", "Persian", "Urdu":
		return "Noto Sans Arabic, Arial, sans-serif"
	case "Chinese":
		return "Noto Sans CJK SC, Arial, sans-serif"
	case "Japanese":
		return "Noto Sans CJK JP, Arial, sans-serif"
	case "Korean":
		return "Noto Sans CJK KR, Arial, sans-serif"
	default:
		return "Arial, sans-serif"
	}
}

type pageData struct {
	Title    string
	Language string
	Font     template.CSS
	Markdown string
}

var page = template.Must(template.New("markmap").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<link href="https://fonts.googleapis.com/css2?family=Noto+Sans:wght@400;600&family=Noto+Sans+Devanagari:wght@400;600&family=Noto+Sans+Arabic:wght@400;600&display=swap" rel="stylesheet">
<style>
body { margin: 0; padding: 0; font-family: {{.Font}}; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); overflow: hidden; }
#mindmap { width: 100vw; height: 100vh; display: block; }
.mm-node text { font-family: {{.Font}}; font-weight: 500; }
.loading { position: absolute; top: 50%; left: 50%; transform: translate(-50%, -50%); color: white; font-size: 18px; }
.controls { position: absolute; top: 20px; right: 20px; background: rgba(255, 255, 255, 0.9); padding: 15px; border-radius: 10px; }
.control-btn { background: #4CAF50; color: white; border: none; padding: 8px 12px; margin: 2px; border-radius: 5px; cursor: pointer; }
.language-info { position: absolute; bottom: 20px; left: 20px; background: rgba(255, 255, 255, 0.9); padding: 10px 15px; border-radius: 8px; }
</style>
<script src="https://cdn.jsdelivr.net/npm/d3@7"></script>
<script src="https://cdn.jsdelivr.net/npm/markmap-view@0.15.3/dist/browser/index.min.js"></script>
<script src="https://cdn.jsdelivr.net/npm/markmap-lib@0.15.3/dist/browser/index.min.js"></script>
</head>
<body>
<div class="loading" id="loading">Loading mindmap...</div>
<div class="controls" id="controls" style="display: none;">
<button class="control-btn" onclick="mm && mm.rescale(1.2)">Zoom In</button>
<button class="control-btn" onclick="mm && mm.rescale(0.8)">Zoom Out</button>
<button class="control-btn" onclick="mm && mm.fit()">Fit View</button>
</div>
<div class="language-info"><strong>Language:</strong> {{.Language}}</div>
<svg id="mindmap"></svg>
<script>
let mm;
window.onload = async () => {
  try {
    const markdown = {{.Markdown}};
    if (!markdown.trim()) { throw new Error('No mindmap content provided'); }
    const { Transformer, Markmap, loadCSS, loadJS } = markmap;
    const { root, features } = new Transformer().transform(markdown);
    if (features.styles) loadCSS(features.styles);
    if (features.scripts) await loadJS(features.scripts);
    const colors = ['#FF6B6B', '#4ECDC4', '#45B7D1', '#96CEB4', '#FFEAA7', '#DDA0DD', '#98D8C8', '#F7DC6F'];
    mm = new Markmap(document.querySelector('#mindmap'), {
      color: (node) => colors[node.depth % colors.length],
      duration: 800, maxWidth: 300, paddingX: 12, paddingY: 8,
      spacingVertical: 10, spacingHorizontal: 80, autoFit: true,
      pan: true, zoom: true, initialExpandLevel: 2, embedGlobalCSS: false
    });
    mm.setData(root);
    mm.fit();
    document.getElementById('loading').style.display = 'none';
    document.getElementById('controls').style.display = 'block';
  } catch (error) {
    document.getElementById('loading').textContent = 'Error loading mindmap: ' + error.message;
  }
};
</script>
</body>
</html>
`))

// RenderHTML writes a self-contained interactive markmap page.
func RenderHTML(w io.Writer, markdown, language string) error {
	return page.Execute(w, pageData{
		Title:    "Interactive Mindmap",
		Language: languageOrDefault(language),
		Font:     template.CSS(FontFamily(language)),
		Markdown: markdown,
	})
}

func RenderHTMLString(markdown, language string) (string, error) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, markdown, language); err != nil {
		return "", err
	}
	return buf.String(), nil
}
