package render

import (
	"fmt"
	"math"
	"strings"

	styles "github.com/charmbracelet/lipgloss"

	"github.com/keilerkonzept/sponsorwall/internal/content"
	"github.com/keilerkonzept/sponsorwall/internal/domain"
	"github.com/keilerkonzept/sponsorwall/internal/wall"
)

// SlotOptions tune how a single slot is drawn.
type SlotOptions struct {
	Width   int
	Pricing content.Pricing
	// Cursor marks the slot under the keyboard cursor.
	Cursor bool
}

var rotationGlyphs = []string{"◐", "◓", "◑", "◒"}

// Slot renders one cell of a grid on the given layer.
func Slot(l domain.Layer, c wall.Cell, opts SlotOptions) string {
	width := opts.Width
	if width < 6 {
		width = CellWidth
	}
	inner := width - 2

	var lines []string
	switch l {
	case domain.LayerAR:
		lines = productLines(c, inner)
	case domain.LayerSpinning:
		lines = spinningLines(c, inner, opts.Pricing)
	case domain.LayerHologram:
		lines = hologramLines(c, inner, opts.Pricing)
	default:
		lines = staticLines(c, inner, opts.Pricing)
	}
	for len(lines) < cellLines {
		lines = append(lines, "")
	}
	lines = lines[:cellLines]
	clip := styles.NewStyle().MaxWidth(inner)
	for i, line := range lines {
		lines[i] = clip.Render(line)
	}

	box := cellStyle.Width(inner).BorderForeground(borderFor(l, c, opts.Cursor))
	return box.Render(strings.Join(lines, "\n"))
}

func borderFor(l domain.Layer, c wall.Cell, cursor bool) styles.TerminalColor {
	switch {
	case cursor:
		return selectedColor
	case c.Selected && (l == domain.LayerHologram || l == domain.LayerAR):
		return blueColor
	case c.Selected:
		return goldColor
	case c.Active && c.Pulse:
		return accent(l, c)
	default:
		return borderColor
	}
}

// accent is blue on the hologram and AR layers and gold elsewhere. Samsung
// in slot 8 keeps its blue brand accent on every layer.
func accent(l domain.Layer, c wall.Cell) styles.AdaptiveColor {
	if l == domain.LayerHologram || l == domain.LayerAR || isSamsungSlot(c) {
		return blueColor
	}
	return goldColor
}

func isSamsungSlot(c wall.Cell) bool {
	return c.Ordinal == 8 && c.Resolution.Company.Name == "Samsung"
}

func slotLabel(n int) string { return fmt.Sprintf("S%02d", n) }

func emptyLines(c wall.Cell, p content.Pricing) []string {
	lines := []string{borderFg.Render(slotLabel(c.Ordinal))}
	for _, line := range PriceLines(p) {
		lines = append(lines, borderFg.Render(line))
	}
	return lines
}

func staticLines(c wall.Cell, inner int, p content.Pricing) []string {
	if !c.Resolution.Found() {
		return emptyLines(c, p)
	}
	co := c.Resolution.Company
	return []string{
		goldFg.Bold(true).Render(truncate(co.Name, inner)),
		goldFg.Faint(true).Render(truncate(co.Category, inner)),
		borderFg.Render(truncate(content.CountryName(co.Country), inner)),
		borderFg.Render(slotLabel(c.Ordinal)),
	}
}

func hologramLines(c wall.Cell, inner int, p content.Pricing) []string {
	if !c.Resolution.Found() {
		return emptyLines(c, p)
	}
	co := c.Resolution.Company
	header := slotLabel(c.Ordinal)
	if c.Active {
		header = activeIndicator(domain.LayerHologram, c) + " " + header
	}
	effect := ""
	if c.HasContent {
		effect = c.Content.Icon + " " + c.Content.Title
	}
	nameStyle := blueFg.Bold(true)
	if c.Active {
		nameStyle = cyanFg.Bold(true)
	}
	return []string{
		header,
		nameStyle.Render(truncate(co.Name, inner)),
		blueFg.Faint(true).Render(truncate(co.Category, inner)),
		cyanFg.Render(truncate(strings.TrimSpace(effect), inner)),
	}
}

// productLines draws the product outline of the AR grid.
func productLines(c wall.Cell, inner int) []string {
	glyph := "□"
	if c.HasProduct && c.Product.Glyph != "" {
		glyph = c.Product.Glyph
	}
	title := ""
	if c.HasContent {
		title = c.Content.Title
	}
	marker := " "
	if c.Active {
		marker = activeIndicator(domain.LayerAR, c)
	}
	glyphStyle := cyanFg.Faint(true)
	if c.Active {
		glyphStyle = cyanFg.Bold(true)
	}
	return []string{
		marker + " " + glyphStyle.Render(glyph) + " " + truncate(title, max(0, inner-4)),
		cyanFg.Render("SPONSOR PRODUCT"),
		borderFg.Render(fmt.Sprintf("#%02d", c.Ordinal)),
		borderFg.Render(truncate(c.Resolution.Company.Name, inner)),
	}
}

func spinningLines(c wall.Cell, inner int, p content.Pricing) []string {
	if !c.Resolution.Found() {
		return emptyLines(c, p)
	}
	co := c.Resolution.Company
	f := c.Spin
	color := goldFg
	if isSamsungSlot(c) {
		color = blueFg
	}

	header := RotationGlyph(f.Rotation) + " " + slotLabel(c.Ordinal)
	if c.Active {
		header = activeIndicator(domain.LayerSpinning, c) + " " + header
	}
	name := co.Name
	if f.Spinning {
		name = Marquee(co.Name, inner, f.Rotation)
	}

	lines := []string{header, color.Bold(true).Render(truncate(name, inner))}
	field := Particles(inner, f.Particles)
	switch {
	case f.Spinning:
		lines = append(lines, color.Render(Sweep(inner, f.Glow)), greenFg.Render(overlay(Orbit(inner, f.OrbitX), field)))
	case f.Landed && co.Product != "":
		lines = append(lines, color.Faint(true).Render(truncate(co.Category, inner)), greenFg.Render(overlay(Orbit(inner, f.OrbitX), field)))
	case len(f.Particles) > 0:
		lines = append(lines, color.Faint(true).Render(truncate(co.Category, inner)), particleFg.Render(field))
	default:
		lines = append(lines, color.Faint(true).Render(truncate(co.Category, inner)))
	}
	return lines
}

func activeIndicator(l domain.Layer, c wall.Cell) string {
	return styles.NewStyle().Foreground(accent(l, c)).Render("●")
}

// RotationGlyph picks a quarter-turn glyph for a rotation in degrees.
func RotationGlyph(deg float64) string {
	q := int(math.Floor(math.Mod(deg, 360)/90)) % len(rotationGlyphs)
	if q < 0 {
		q += len(rotationGlyphs)
	}
	return rotationGlyphs[q]
}

// Marquee shifts s left to right inside width columns, one full pass per
// 360 degrees of rotation.
func Marquee(s string, width int, deg float64) string {
	if width <= 0 {
		return ""
	}
	track := []rune(padRight(s, width))
	n := len(track)
	offset := int(math.Mod(deg, 360)/360*float64(n)) % n
	if offset < 0 {
		offset += n
	}
	out := make([]rune, 0, n)
	out = append(out, track[n-offset:]...)
	out = append(out, track[:n-offset]...)
	return fit(out, width)
}

// Sweep draws the glow sweep band at pct percent of width.
func Sweep(width int, pct float64) string {
	if width <= 0 {
		return ""
	}
	pos := column(width, pct)
	var b strings.Builder
	for i := range width {
		switch d := i - pos; {
		case d == 0:
			b.WriteString("█")
		case d == -1 || d == 1:
			b.WriteString("▓")
		default:
			b.WriteString("░")
		}
	}
	return b.String()
}

// Particles draws the hologram particle field on one row. Higher particles
// get higher dots.
func Particles(width int, ps []wall.Particle) string {
	if width <= 0 {
		return ""
	}
	row := []rune(strings.Repeat(" ", width))
	for _, p := range ps {
		glyph := '.'
		switch {
		case p.Y < 100.0/3:
			glyph = '˙'
		case p.Y < 200.0/3:
			glyph = '·'
		}
		row[column(width, p.X)] = glyph
	}
	return string(row)
}

// overlay puts the non-blank runes of top over base. Both are single-width
// rows of the same length.
func overlay(top, base string) string {
	t, b := []rune(top), []rune(base)
	for i := range min(len(t), len(b)) {
		if t[i] != ' ' {
			b[i] = t[i]
		}
	}
	return string(b)
}

// Orbit marks the AR object's horizontal position, x in percent of the slot.
func Orbit(width int, x float64) string {
	if width <= 0 {
		return ""
	}
	pos := column(width, x)
	return strings.Repeat(" ", pos) + "✦" + strings.Repeat(" ", width-pos-1)
}

func column(width int, pct float64) int {
	pos := int(pct / 100 * float64(width))
	return min(max(pos, 0), width-1)
}

func padRight(s string, width int) string {
	n := styles.Width(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// fit keeps the leading runes of r that fill at most width columns and pads
// the rest with spaces.
func fit(r []rune, width int) string {
	var b strings.Builder
	used := 0
	for _, c := range r {
		w := styles.Width(string(c))
		if used+w > width {
			break
		}
		b.WriteRune(c)
		used += w
	}
	b.WriteString(strings.Repeat(" ", width-used))
	return b.String()
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if styles.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && styles.Width(string(r)) > width-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
