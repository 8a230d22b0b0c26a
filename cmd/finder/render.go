package main

import (
	"io"
	"strings"

	"product-finder/internal/core/recipe"

	"github.com/charmbracelet/lipgloss"
)

// renderer 以終端機顏色輸出結果行：+ 與售價為綠色，= 與成本為紅色，有屬性的產物加底線
type renderer struct {
	plain  bool
	styles map[recipe.Style]lipgloss.Style
	header lipgloss.Style
	bullet lipgloss.Style
}

func newRenderer(w io.Writer, plain bool) *renderer {
	r := lipgloss.NewRenderer(w)
	green := lipgloss.Color("2")
	red := lipgloss.Color("1")

	return &renderer{
		plain: plain,
		styles: map[recipe.Style]lipgloss.Style{
			recipe.StylePlus:      r.NewStyle().Foreground(green),
			recipe.StyleEquals:    r.NewStyle().Foreground(red),
			recipe.StylePrice:     r.NewStyle().Foreground(green),
			recipe.StyleCost:      r.NewStyle().Foreground(red),
			recipe.StyleClickable: r.NewStyle().Underline(true),
		},
		header: r.NewStyle().Bold(true),
		bullet: r.NewStyle().Foreground(lipgloss.Color("4")),
	}
}

func (r *renderer) line(l recipe.Line) string {
	if r.plain {
		return l.Text()
	}
	if l.Kind == recipe.LineHeader {
		return r.header.Render(l.Text())
	}

	var sb strings.Builder
	for _, seg := range l.Segments {
		if style, ok := r.styles[seg.Style]; ok {
			sb.WriteString(style.Render(seg.Text))
			continue
		}
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

func (r *renderer) lines(lines []recipe.Line) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(r.line(l))
		sb.WriteString("\n")
	}
	return sb.String()
}

// properties 屬性清單，每行 "• prop"
func (r *renderer) properties(ing recipe.Ingredient, props []string) string {
	var sb strings.Builder
	if r.plain {
		sb.WriteString(string(ing))
	} else {
		sb.WriteString(r.header.Render(string(ing)))
	}
	sb.WriteString("\n")
	for _, p := range props {
		if r.plain {
			sb.WriteString("• ")
		} else {
			sb.WriteString(r.bullet.Render("•") + " ")
		}
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	return sb.String()
}
