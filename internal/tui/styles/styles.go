package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/gw2catalog/internal/domain"
)

// Color palette
var (
	Gold       = lipgloss.Color("#E5A00D")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Blue       = lipgloss.Color("#3B82F6")
)

// Rarity colors as shown in game
var rarityColors = map[domain.Rarity]lipgloss.Color{
	domain.RarityJunk:       lipgloss.Color("#AAAAAA"),
	domain.RarityBasic:      lipgloss.Color("#FFFFFF"),
	domain.RarityFine:       lipgloss.Color("#62A4DA"),
	domain.RarityMasterwork: lipgloss.Color("#1A9306"),
	domain.RarityRare:       lipgloss.Color("#FCD00B"),
	domain.RarityExotic:     lipgloss.Color("#FFA405"),
	domain.RarityAscended:   lipgloss.Color("#FB3E8D"),
	domain.RarityLegendary:  lipgloss.Color("#974EFF"),
}

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Gold)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Gold)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Panel style for the preload view
var PanelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Gold).
	Padding(1, 2)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Gold)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Spinner style
var SpinnerStyle = lipgloss.NewStyle().
	Foreground(Gold)

// Filter styles
var (
	FilterStyle = lipgloss.NewStyle().
			Foreground(Gold)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(Gold).
				Bold(true)
)

// Match highlight style for search results
var MatchHighlightStyle = lipgloss.NewStyle().
	Foreground(Gold).
	Bold(true)

// Status bar
var (
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(Red).
				Bold(true)
)

// RarityStyle colors text by item rarity
func RarityStyle(r domain.Rarity) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(RarityColor(r))
}

// RenderItemName renders name in its rarity color, highlighting the
// characters at the matched byte offsets.
func RenderItemName(name string, r domain.Rarity, matched []int) string {
	base := RarityStyle(r)
	if len(matched) == 0 {
		return base.Render(name)
	}

	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}

	var b strings.Builder
	for i, ch := range name {
		if hit[i] {
			b.WriteString(MatchHighlightStyle.Render(string(ch)))
		} else {
			b.WriteString(base.Render(string(ch)))
		}
	}
	return b.String()
}

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// Pad pads a string to the given display width
func Pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// RowPart is one segment of a list row. A nil Foreground uses the row default.
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
}

// RenderListRow renders a list row with a uniform background when selected.
// Each part is styled separately so ANSI resets do not clear the background.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	var b strings.Builder
	visible := 0
	for _, part := range parts {
		style := lipgloss.NewStyle()
		switch {
		case part.Foreground != nil:
			style = style.Foreground(*part.Foreground)
		case selected:
			style = style.Foreground(White)
		default:
			style = style.Foreground(LightGray)
		}
		if selected {
			style = style.Background(SlateLight)
		}
		b.WriteString(style.Render(part.Text))
		visible += lipgloss.Width(part.Text)
	}

	fill := lipgloss.NewStyle()
	if selected {
		fill = fill.Background(SlateLight)
	}
	// 2 columns of margin
	if pad := width - visible - 2; pad > 0 {
		b.WriteString(fill.Render(strings.Repeat(" ", pad)))
	}
	margin := fill.Render(" ")
	return margin + b.String() + margin
}

// RarityColor returns the in-game color for a rarity
func RarityColor(r domain.Rarity) lipgloss.Color {
	if c, ok := rarityColors[r]; ok {
		return c
	}
	return LightGray
}

// FormatCoins renders copper as "1g 02s 03c", or "-" when there is none
func FormatCoins(copper int) string {
	if copper <= 0 {
		return "-"
	}
	g, s, c := copper/10000, copper/100%100, copper%100
	switch {
	case g > 0:
		return fmt.Sprintf("%dg %02ds %02dc", g, s, c)
	case s > 0:
		return fmt.Sprintf("%ds %02dc", s, c)
	default:
		return fmt.Sprintf("%dc", c)
	}
}
