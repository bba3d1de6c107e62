package irc

import (
	"fmt"
	"strings"
)

// Control byte constants for mIRC-style formatting, per
// https://modern.ircdocs.horse/formatting.
const (
	ctrlBold          = 0x02
	ctrlColor         = 0x03
	ctrlHexColor      = 0x04
	ctrlReset         = 0x0F
	ctrlMonospace     = 0x11
	ctrlReverse       = 0x16
	ctrlItalic        = 0x1D
	ctrlStrikethrough = 0x1E
	ctrlUnderline     = 0x1F
)

// AttributeSet is the set of toggle-able text attributes, excluding color.
type AttributeSet struct {
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Monospace     bool
	Reverse       bool
}

// Style is the full rendering state applied to a span of text: a
// foreground/background color pair plus the toggle attributes.
type Style struct {
	Foreground   Color100
	HasFG        bool
	Background   Color100
	HasBG        bool
	Attributes   AttributeSet
}

// StyledSpan is a contiguous run of text sharing one Style.
type StyledSpan struct {
	Style   Style
	Content string
}

// StyledLine is a parsed mIRC-formatted line: a sequence of StyledSpans.
type StyledLine struct {
	Spans []StyledSpan
}

// ParseStyledLine scans raw for formatting control bytes and returns the
// resulting sequence of styled spans.
func ParseStyledLine(raw string) StyledLine {
	var line StyledLine
	style := Style{}
	var content strings.Builder

	flush := func() {
		if content.Len() > 0 {
			line.Spans = append(line.Spans, StyledSpan{Style: style, Content: content.String()})
			content.Reset()
		}
	}

	i := 0
	for i < len(raw) {
		b := raw[i]
		switch b {
		case ctrlBold:
			flush()
			style.Attributes.Bold = !style.Attributes.Bold
			i++
		case ctrlItalic:
			flush()
			style.Attributes.Italic = !style.Attributes.Italic
			i++
		case ctrlUnderline:
			flush()
			style.Attributes.Underline = !style.Attributes.Underline
			i++
		case ctrlStrikethrough:
			flush()
			style.Attributes.Strikethrough = !style.Attributes.Strikethrough
			i++
		case ctrlMonospace:
			flush()
			style.Attributes.Monospace = !style.Attributes.Monospace
			i++
		case ctrlReverse:
			flush()
			style.Attributes.Reverse = !style.Attributes.Reverse
			i++
		case ctrlReset:
			flush()
			style = Style{}
			i++
		case ctrlColor:
			flush()
			i++
			i = scanColor100(raw, i, &style)
		case ctrlHexColor:
			flush()
			i++
			i = scanRGBColor(raw, i, &style)
		default:
			content.WriteByte(b)
			i++
		}
	}
	flush()
	return line
}

// scanColor100 parses the \x03 colour control: up to two ASCII digits for
// foreground, optionally followed by ",NN" for background. A bare \x03
// with no digits resets both colours.
func scanColor100(s string, i int, style *Style) int {
	fg, n, ok := scanDigits(s, i, 2)
	if !ok {
		style.HasFG = false
		style.HasBG = false
		return i
	}
	i = n
	c, err := ParseColor100(uint8(fg))
	if err != nil {
		style.HasFG = false
		style.HasBG = false
		return i
	}
	style.Foreground = c
	style.HasFG = true

	if i < len(s) && s[i] == ',' {
		bg, n2, ok2 := scanDigits(s, i+1, 2)
		if ok2 {
			c2, err2 := ParseColor100(uint8(bg))
			if err2 == nil {
				style.Background = c2
				style.HasBG = true
				return n2
			}
		}
	}
	return i
}

func scanDigits(s string, i, max int) (value int, next int, ok bool) {
	start := i
	for i < len(s) && i-start < max && isDigit(s[i]) {
		value = value*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0, start, false
	}
	return value, i, true
}

// scanRGBColor parses the \x04 hex colour control: 6 hex digits for
// foreground, optionally followed by ",RRGGBB" for background. Invalid or
// partial hex resets both colours. Color100 cannot represent full RGB, so
// each value is mapped to the Color100 whose ANSI-256 approximation is
// nearest (rgbToColor100).
func scanRGBColor(s string, i int, style *Style) int {
	fg, n, ok := scanHex6(s, i)
	if !ok {
		style.HasFG = false
		style.HasBG = false
		return i
	}
	i = n
	style.Foreground = rgbToColor100(fg)
	style.HasFG = true

	if i < len(s) && s[i] == ',' {
		bg, n2, ok2 := scanHex6(s, i+1)
		if ok2 {
			style.Background = rgbToColor100(bg)
			style.HasBG = true
			return n2
		}
	}
	return i
}

func scanHex6(s string, i int) (value uint32, next int, ok bool) {
	if i+6 > len(s) {
		return 0, i, false
	}
	for j := 0; j < 6; j++ {
		d, ok2 := scanHexDigit(s[i+j])
		if !ok2 {
			return 0, i, false
		}
		value = value<<4 | uint32(d)
	}
	return value, i + 6, true
}

func scanHexDigit(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}

// rgbToColor100 approximates a 24-bit colour as the nearest Color100 by
// scanning its ANSI-256 table; this is a lossy best-effort mapping since
// Color100 only has 99 representable colours.
func rgbToColor100(rgb uint32) Color100 {
	r, g, b := uint8(rgb>>16), uint8(rgb>>8), uint8(rgb)
	best := ColorDefault
	bestDist := -1
	for i := uint8(0); i < 99; i++ {
		c := Color100(i)
		idx, ok := c.ToAnsi256()
		if !ok {
			continue
		}
		cr, cg, cb := ansi256ToRGB(idx)
		dist := sqDist(r, g, b, cr, cg, cb)
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = c
		}
	}
	return best
}

func sqDist(r1, g1, b1, r2, g2, b2 uint8) int {
	dr := int(r1) - int(r2)
	dg := int(g1) - int(g2)
	db := int(b1) - int(b2)
	return dr*dr + dg*dg + db*db
}

// ansi256ToRGB is a coarse approximation sufficient for nearest-colour
// matching; it is not used for rendering, only for rgbToColor100's search.
func ansi256ToRGB(idx uint8) (r, g, b uint8) {
	if idx < 16 {
		// standard/high-intensity: approximate via a fixed small table.
		basic := [16][3]uint8{
			{0, 0, 0}, {128, 0, 0}, {0, 128, 0}, {128, 128, 0},
			{0, 0, 128}, {128, 0, 128}, {0, 128, 128}, {192, 192, 192},
			{128, 128, 128}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
			{0, 0, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
		}
		c := basic[idx]
		return c[0], c[1], c[2]
	}
	if idx >= 232 {
		v := uint8(8 + (idx-232)*10)
		return v, v, v
	}
	idx -= 16
	steps := [6]uint8{0, 95, 135, 175, 215, 255}
	r = steps[idx/36]
	g = steps[(idx/6)%6]
	b = steps[idx%6]
	return
}

// Emit renders the StyledLine back to mIRC control-code text, emitting the
// minimal control-byte diff between consecutive spans. If a span's content
// begins with an ASCII digit immediately after a colour-setting control
// code, two bold toggles are emitted first to prevent the digit from being
// absorbed into the colour number (the mIRC digit-guard trick).
func (l StyledLine) Emit() string {
	var b strings.Builder
	var cur Style
	for _, span := range l.Spans {
		emitDiff(&b, cur, span.Style)
		if styleChangedColor(cur, span.Style) && len(span.Content) > 0 && isDigit(span.Content[0]) {
			b.WriteByte(ctrlBold)
			b.WriteByte(ctrlBold)
		}
		b.WriteString(span.Content)
		cur = span.Style
	}
	return b.String()
}

func styleChangedColor(a, b Style) bool {
	return a.HasFG != b.HasFG || a.Foreground != b.Foreground ||
		a.HasBG != b.HasBG || a.Background != b.Background
}

func emitDiff(b *strings.Builder, from, to Style) {
	if from.Attributes.Bold != to.Attributes.Bold {
		b.WriteByte(ctrlBold)
	}
	if from.Attributes.Italic != to.Attributes.Italic {
		b.WriteByte(ctrlItalic)
	}
	if from.Attributes.Underline != to.Attributes.Underline {
		b.WriteByte(ctrlUnderline)
	}
	if from.Attributes.Strikethrough != to.Attributes.Strikethrough {
		b.WriteByte(ctrlStrikethrough)
	}
	if from.Attributes.Monospace != to.Attributes.Monospace {
		b.WriteByte(ctrlMonospace)
	}
	if from.Attributes.Reverse != to.Attributes.Reverse {
		b.WriteByte(ctrlReverse)
	}
	if styleChangedColor(from, to) {
		if !to.HasFG && !to.HasBG {
			b.WriteByte(ctrlColor)
			return
		}
		b.WriteByte(ctrlColor)
		b.WriteString(pad2(uint8(to.Foreground)))
		if to.HasBG {
			b.WriteByte(',')
			b.WriteString(pad2(uint8(to.Background)))
		}
	}
}

func pad2(n uint8) string {
	return fmt.Sprintf("%02d", n)
}
