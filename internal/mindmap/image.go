package mindmap

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// ImageOptions controls PNG export. Without FontPath only ASCII renders
// legibly, so non-Latin mindmaps need a TTF covering their script.
type ImageOptions struct {
	FontPath string
	FontSize float64
}

type outlineNode struct {
	text     string
	depth    int
	children []*outlineNode
	x, y     float64
}

var branchColors = []color.RGBA{
	{R: 0xFF, G: 0x99, B: 0x33, A: 0xFF},
	{R: 0x13, G: 0x88, B: 0x08, A: 0xFF},
	{R: 0x00, G: 0x00, B: 0x80, A: 0xFF},
	{R: 0x8E, G: 0x44, B: 0xAD, A: 0xFF},
	{R: 0xC0, G: 0x39, B: 0x2B, A: 0xFF},
}

const (
	imgMargin   = 40.0
	imgRow      = 34.0
	imgColumn   = 260.0
	imgMaxRunes = 36
)

// parseOutline builds a tree from headings and bullets. Bullets nest under the
// nearest heading, two spaces of indent per level.
func parseOutline(markdown string) *outlineNode {
	root := &outlineNode{depth: 0}
	stack := []*outlineNode{root}
	curHeading := 0
	for _, raw := range strings.Split(markdown, "\n") {
		line := strings.TrimRight(raw, " \t\r")
		var depth int
		var text string
		if d := headingDepth(line); d > 0 {
			depth, text = d, strings.TrimSpace(line[d:])
			curHeading = d
		} else if t := strings.TrimLeft(line, " \t"); strings.HasPrefix(t, "- ") || strings.HasPrefix(t, "* ") {
			indent := len(line) - len(t)
			depth, text = curHeading+1+indent/2, strings.TrimSpace(t[2:])
		} else {
			continue
		}
		if text == "" {
			continue
		}
		for len(stack) > 1 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}
		n := &outlineNode{text: text, depth: depth}
		parent := stack[len(stack)-1]
		parent.children = append(parent.children, n)
		stack = append(stack, n)
	}
	if len(root.children) == 1 {
		return root.children[0]
	}
	root.text = "Mindmap"
	return root
}

// layout places leaves on consecutive rows and centres parents on their children.
// It returns the number of rows and the deepest column used.
func layout(root *outlineNode) (rows int, cols int) {
	var walk func(n *outlineNode, col int)
	walk = func(n *outlineNode, col int) {
		n.x = imgMargin + float64(col)*imgColumn
		cols = max(cols, col)
		if len(n.children) == 0 {
			n.y = imgMargin + float64(rows)*imgRow + imgRow/2
			rows++
			return
		}
		for _, c := range n.children {
			walk(c, col+1)
		}
		n.y = (n.children[0].y + n.children[len(n.children)-1].y) / 2
	}
	walk(root, 0)
	return rows, cols
}

func loadFace(opts ImageOptions) (font.Face, error) {
	if strings.TrimSpace(opts.FontPath) == "" {
		return basicfont.Face7x13, nil
	}
	b, err := os.ReadFile(opts.FontPath)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	f, err := truetype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	size := opts.FontSize
	if size <= 0 {
		size = 16
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone}), nil
}

func clip(s string) string {
	r := []rune(s)
	if len(r) <= imgMaxRunes {
		return s
	}
	return string(r[:imgMaxRunes-1]) + "…"
}

// RenderPNG draws the outline as a left-to-right tree.
func RenderPNG(w io.Writer, markdown string, opts ImageOptions) error {
	root := parseOutline(markdown)
	if root.text == "Mindmap" && len(root.children) == 0 {
		return ErrNoInput
	}
	face, err := loadFace(opts)
	if err != nil {
		return err
	}
	rows, cols := layout(root)
	width := int(2*imgMargin + float64(cols+1)*imgColumn)
	height := int(2*imgMargin + float64(max(rows, 1))*imgRow)

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetFontFace(face)

	var draw func(n *outlineNode, branch int)
	draw = func(n *outlineNode, branch int) {
		for i, c := range n.children {
			b := branch
			if n == root {
				b = i
			}
			col := branchColors[b%len(branchColors)]
			tw, _ := dc.MeasureString(clip(n.text))
			x0, y0 := n.x+tw+16, n.y
			x1, y1 := c.x, c.y
			dc.SetColor(col)
			dc.SetLineWidth(2)
			dc.MoveTo(x0, y0)
			mid := (x0 + x1) / 2
			dc.CubicTo(mid, y0, mid, y1, x1-6, y1)
			dc.Stroke()
			draw(c, b)
		}
		label := clip(n.text)
		col := branchColors[branch%len(branchColors)]
		dc.SetColor(col)
		dc.DrawCircle(n.x, n.y, 4)
		dc.Fill()
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(label, n.x+10, n.y, 0, 0.35)
	}
	draw(root, 0)

	return dc.EncodePNG(w)
}
