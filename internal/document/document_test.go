package document

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/sutra-starters/internal/llm"
)

func TestExtractText_PlainAndUnsupported(t *testing.T) {
	got, err := ExtractText("notes.md", []byte("  # Kharif crops\nRice and maize.  "), nil)
	if err != nil || got != "# Kharif crops\nRice and maize." {
		t.Fatalf("got=%q err=%v", got, err)
	}
	if _, err := ExtractText("sheet.xlsx", []byte("x"), nil); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("err=%v", err)
	}
	if _, err := ExtractText("empty.txt", []byte("   "), nil); !errors.Is(err, ErrNoText) {
		t.Fatalf("err=%v", err)
	}
}

func TestExtractPDF_RejectsGarbage(t *testing.T) {
	data := []byte("not a pdf at all")
	if _, err := ExtractText("broken.pdf", data, nil); err == nil {
		t.Fatalf("expected error for invalid pdf")
	}
}

func TestIndex_SearchRanksBySimilarity(t *testing.T) {
	m := &llm.Mock{}
	ix := NewIndex(m)
	text := strings.Join([]string{
		"Rice is sown during the monsoon season in flooded paddies.",
		"The stock market closed higher on banking shares.",
		"Wheat is a rabi crop harvested in spring.",
	}, "\n")
	n, err := ix.Add(context.Background(), text, 60, 0)
	if err != nil || n < 3 {
		t.Fatalf("Add: n=%d err=%v", n, err)
	}
	res, err := ix.Search(context.Background(), "when is rice sown in the monsoon", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 1 || !strings.Contains(res[0].Text, "Rice") {
		t.Fatalf("res=%+v", res)
	}
}

func TestAsk_UsesRetrievedContext(t *testing.T) {
	m := &llm.Mock{}
	ix := NewIndex(m)
	if _, err := ix.Add(context.Background(), "The scheme offers 6000 rupees per year to farmers.", 1000, 0); err != nil {
		t.Fatalf("Add: %v", err)
	}
	ans, err := Ask(context.Background(), m, ix, "How much does the scheme pay?", "Hindi", 2)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !strings.Contains(ans.Answer, "6000 rupees") || len(ans.Sources) != 1 {
		t.Fatalf("ans=%+v", ans)
	}
	if sys := m.Calls()[0][0].Content; !strings.Contains(sys, "Respond in Hindi") {
		t.Fatalf("system=%q", sys)
	}
}
