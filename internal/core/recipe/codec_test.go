package recipe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codecIndex() *Index {
	return NewIndex(nil, map[Ingredient]int{"b": 10, "c": 50})
}

func TestHeaderFor(t *testing.T) {
	assert.Equal(t, "Chains for all products:", HeaderFor(AllProducts))
	assert.Equal(t, "Chains starting from ogkush:", HeaderFor("ogkush"))
}

func TestAnnotateChain(t *testing.T) {
	idx := codecIndex()

	assert.Equal(t, "a + cuke = b ---- Sell Price: 10 | Cost: 2", AnnotateChain("a + cuke = b", idx))
	assert.Equal(t, "a + donut + banana = c ---- Sell Price: 50 | Cost: 5", AnnotateChain("a + donut + banana = c", idx))
	assert.Equal(t, "a + cuke = unknown", AnnotateChain("a + cuke = unknown", idx))
	assert.Equal(t, "a + cuke = b", AnnotateChain("a + cuke = b", nil))
}

func TestExportText(t *testing.T) {
	chains := []string{"a + cuke = b", "", "x + banana = zz"}

	got := ExportText(HeaderFor(AllProducts), chains, codecIndex())

	want := "Chains for all products:\n" +
		"\n" +
		"a + cuke = b ---- Sell Price: 10 | Cost: 2\n" +
		"\n" +
		"x + banana = zz\n"
	assert.Equal(t, want, got)
}

func TestImportText_RoundTrip(t *testing.T) {
	chains := []string{"a + cuke = b", "a + donut + banana = c", "", "x + banana = zz"}
	text := ExportText(HeaderFor("a"), chains, codecIndex())

	lines := ImportText(text)

	require.Len(t, lines, 6)
	assert.Equal(t, LineHeader, lines[0].Kind)
	assert.Equal(t, LineBlank, lines[1].Kind)
	assert.Equal(t, LineChain, lines[2].Kind)
	assert.Equal(t, LineChain, lines[3].Kind)
	assert.Equal(t, LineBlank, lines[4].Kind)
	assert.Equal(t, LineChain, lines[5].Kind)

	var back []string
	for _, l := range lines {
		if l.Kind == LineChain {
			back = append(back, l.Chain())
		}
	}
	assert.Equal(t, []string{"a + cuke = b", "a + donut + banana = c", "x + banana = zz"}, back)

	// 片段接回後與原始文字一致
	raw := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, l := range lines {
		assert.Equal(t, raw[i], l.Text())
		assert.Equal(t, raw[i], l.Raw)
	}
}

func TestParseLine_Chain(t *testing.T) {
	l := ParseLine("ogkush + cuke + banana = sourdiesel ---- Sell Price: 61 | Cost: 4")

	assert.Equal(t, LineChain, l.Kind)
	assert.Equal(t, Ingredient("ogkush"), l.Base)
	assert.Equal(t, []Ingredient{"cuke", "banana"}, l.Elements)
	assert.Equal(t, Ingredient("sourdiesel"), l.Output)
	assert.Equal(t, "Sell Price: 61", l.PriceText)
	assert.Equal(t, "Cost: 4", l.CostText)
	require.NotNil(t, l.Price)
	require.NotNil(t, l.Cost)
	assert.Equal(t, 61, *l.Price)
	assert.Equal(t, 4, *l.Cost)

	styles := map[Style]string{}
	for _, seg := range l.Segments {
		styles[seg.Style] += seg.Text
	}
	assert.Equal(t, "++", styles[StylePlus])
	assert.Equal(t, "=", styles[StyleEquals])
	assert.Equal(t, "Sell Price: 61", styles[StylePrice])
	assert.Equal(t, "Cost: 4", styles[StyleCost])
}

func TestParseLine_Kinds(t *testing.T) {
	tests := []struct {
		name string
		line string
		kind LineKind
	}{
		{name: "blank", line: "", kind: LineBlank},
		{name: "whitespace", line: "   ", kind: LineBlank},
		{name: "header", line: "Chains starting from meth:", kind: LineHeader},
		{name: "text", line: "some note", kind: LineText},
		{name: "chain without price", line: "a + b = c", kind: LineChain},
		{name: "crlf", line: "a + b = c\r", kind: LineChain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, ParseLine(tt.line).Kind)
		})
	}
}

func TestParseLine_BadNumbers(t *testing.T) {
	l := ParseLine("a + b = c ---- Sell Price: lots | Cost: 3")

	assert.Nil(t, l.Price)
	require.NotNil(t, l.Cost)
	assert.Equal(t, 3, *l.Cost)
}

func TestParseLine_IrregularSpacingKeepsText(t *testing.T) {
	line := "a + b = c   "
	l := ParseLine(line)

	assert.Equal(t, LineChain, l.Kind)
	assert.Equal(t, Ingredient("c   "), l.Output)
	assert.Equal(t, line, l.Text())
}

func TestImportText_NamesContainingChains(t *testing.T) {
	idx := NewIndex([]Recipe{{Product: "Chainsaw", Mixer: "cuke", Output: "x"}}, map[Ingredient]int{"x": 5})
	chains := Format("Chainsaw", Enumerate(idx, "Chainsaw", 0))
	require.Equal(t, []string{"Chainsaw + cuke = x"}, chains)

	lines := ImportText(ExportText(HeaderFor("Chainsaw"), chains, idx))

	require.Len(t, lines, 3)
	assert.Equal(t, LineHeader, lines[0].Kind)
	l := lines[2]
	assert.Equal(t, LineChain, l.Kind)
	assert.Equal(t, Ingredient("Chainsaw"), l.Base)
	assert.Equal(t, []Ingredient{"cuke"}, l.Elements)
	assert.Equal(t, Ingredient("x"), l.Output)
	require.NotNil(t, l.Price)
	require.NotNil(t, l.Cost)
	assert.Equal(t, 5, *l.Price)
	assert.Equal(t, 2, *l.Cost)
	assert.Equal(t, "Chainsaw + cuke = x", l.Chain())
}

func TestImportText_KeepsWhitespaceInNames(t *testing.T) {
	idx := NewIndex(nil, map[Ingredient]int{"out ": 7})
	chains := []string{"base + cuke = out ", "base + cuke = plain "}

	lines := ImportText(ExportText(HeaderFor("base"), chains, idx))

	require.Len(t, lines, 4)
	assert.Equal(t, Ingredient("out "), lines[2].Output)
	require.NotNil(t, lines[2].Price)
	assert.Equal(t, 7, *lines[2].Price)
	assert.Equal(t, "base + cuke = out ", lines[2].Chain())
	assert.Equal(t, Ingredient("plain "), lines[3].Output)
	assert.Equal(t, "base + cuke = plain ", lines[3].Chain())
}

func TestImportText_Empty(t *testing.T) {
	assert.Empty(t, ImportText(""))
	assert.Empty(t, ImportText("\n"))
	assert.Len(t, ImportText("\n\n"), 2)
}

func TestDisplayLines(t *testing.T) {
	t.Run("no chains", func(t *testing.T) {
		lines := DisplayLines(HeaderFor("a"), nil, nil)
		require.Len(t, lines, 1)
		assert.Equal(t, NoChainsFound, lines[0].Text())
	})

	t.Run("clickable and priced", func(t *testing.T) {
		idx := codecIndex().WithProperties(map[Ingredient][]string{"b": {"Calming"}})

		lines := DisplayLines(HeaderFor("a"), []string{"a + cuke = b", "", "a + x = zz"}, idx)

		require.Len(t, lines, 5)
		assert.Equal(t, "Chains starting from a:", lines[0].Text())
		assert.Equal(t, LineBlank, lines[1].Kind)
		assert.Equal(t, "a + cuke = b ---- Sell Price: 10 | Cost: 2", lines[2].Text())
		assert.Equal(t, LineBlank, lines[3].Kind)
		assert.Equal(t, "a + x = zz", lines[4].Text())

		var clickable []string
		for _, l := range lines {
			for _, seg := range l.Segments {
				if seg.Style == StyleClickable {
					clickable = append(clickable, seg.Text)
				}
			}
		}
		assert.Equal(t, []string{"b"}, clickable)
	})
}
