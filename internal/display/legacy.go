// Package display renders auctions and help text for the interactive console.
package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// legacyMarker introduces a two-character formatting code in names and lore.
const legacyMarker = '§'

var legacyColors = map[rune]lipgloss.Color{
	'0': "#000000",
	'1': "#0000AA",
	'2': "#00AA00",
	'3': "#00AAAA",
	'4': "#AA0000",
	'5': "#AA00AA",
	'6': "#FFAA00",
	'7': "#AAAAAA",
	'8': "#555555",
	'9': "#5555FF",
	'a': "#55FF55",
	'b': "#55FFFF",
	'c': "#FF5555",
	'd': "#FF55FF",
	'e': "#FFFF55",
	'f': "#FFFFFF",
}

type span struct {
	text          string
	color         lipgloss.Color
	bold          bool
	italic        bool
	underline     bool
	strikethrough bool
}

// parseLegacy splits text into runs that share one format. Unknown codes are dropped.
func parseLegacy(text string) []span {
	var (
		spans []span
		cur   span
		sb    strings.Builder
	)
	flush := func() {
		if sb.Len() > 0 {
			cur.text = sb.String()
			spans = append(spans, cur)
			sb.Reset()
		}
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != legacyMarker {
			sb.WriteRune(r)
			continue
		}
		if i+1 >= len(runes) {
			break
		}
		i++
		code := runes[i]
		if code >= 'A' && code <= 'Z' {
			code += 'a' - 'A'
		}

		flush()
		if c, ok := legacyColors[code]; ok {
			// a colour code also clears styles
			cur = span{color: c}
			continue
		}
		switch code {
		case 'l':
			cur.bold = true
		case 'm':
			cur.strikethrough = true
		case 'n':
			cur.underline = true
		case 'o':
			cur.italic = true
		case 'r':
			cur = span{}
		}
	}
	flush()
	return spans
}

// StripLegacy removes formatting codes.
func StripLegacy(text string) string {
	var sb strings.Builder
	for _, s := range parseLegacy(text) {
		sb.WriteString(s.text)
	}
	return sb.String()
}

// Formatter turns formatting codes into terminal styles.
type Formatter struct {
	r     *lipgloss.Renderer
	color bool
}

// NewFormatter creates a formatter. With color false, codes are stripped.
func NewFormatter(r *lipgloss.Renderer, color bool) *Formatter {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Formatter{r: r, color: color}
}

// Legacy renders text containing formatting codes.
func (f *Formatter) Legacy(text string) string {
	if !f.color {
		return StripLegacy(text)
	}
	var sb strings.Builder
	for _, s := range parseLegacy(text) {
		st := f.r.NewStyle().
			Bold(s.bold).
			Italic(s.italic).
			Underline(s.underline).
			Strikethrough(s.strikethrough)
		if s.color != "" {
			st = st.Foreground(s.color)
		}
		// lipgloss pads multi-line blocks to a common width, so style line by line
		for i, line := range strings.Split(s.text, "\n") {
			if i > 0 {
				sb.WriteByte('\n')
			}
			if line != "" {
				sb.WriteString(st.Render(line))
			}
		}
	}
	return sb.String()
}
