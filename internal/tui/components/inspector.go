package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mmcdole/gw2catalog/internal/domain"
	"github.com/mmcdole/gw2catalog/internal/tui/styles"
)

// Layout constants for inspector
const (
	InspectorBorderHeight     = 2
	InspectorScrollIndicators = 2
)

// inspectorContent holds the three-zone layout content
type inspectorContent struct {
	header string // fixed top
	body   string // scrollable middle
	footer string // fixed bottom
}

// ItemDetail is the lazily loaded part of the inspector
type ItemDetail struct {
	Price    domain.ItemPrice
	Craft    *domain.CraftCost
	Favorite bool
}

// Inspector displays details for the selected entry
type Inspector struct {
	entry      *Entry
	detail     *ItemDetail
	loading    bool
	width      int
	height     int
	offset     int // scroll offset
	maxVisible int // max visible lines
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{}
}

// SetEntry sets the entry to display and drops any loaded detail
func (i *Inspector) SetEntry(e *Entry) {
	i.entry = e
	i.detail = nil
	i.loading = false
	i.offset = 0
}

// SetDetail attaches price and craft data for the current entry
func (i *Inspector) SetDetail(d *ItemDetail) {
	i.detail = d
	i.loading = false
}

// SetLoading marks the detail as in flight
func (i *Inspector) SetLoading(loading bool) {
	i.loading = loading
}

// Entry returns the displayed entry
func (i Inspector) Entry() *Entry {
	return i.entry
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
	// Reserve the title and the blank line below it
	i.maxVisible = max(height-InspectorBorderHeight-InspectorScrollIndicators-2, 1)
}

// ScrollDown moves the body window down one line
func (i *Inspector) ScrollDown() {
	i.offset++
}

// ScrollUp moves the body window up one line
func (i *Inspector) ScrollUp() {
	if i.offset > 0 {
		i.offset--
	}
}

// View renders the component
func (i Inspector) View() string {
	style := styles.InactiveBorder

	// Border takes 2 chars, leave 1 char safety margin
	contentWidth := max(i.width-3, 10)
	content := i.renderInspector(contentWidth)

	titleLine := styles.AccentStyle.Render(styles.Truncate("Info", contentWidth))

	// Three-zone layout: header is fixed, body scrolls, footer is fixed
	headerLines := splitLines(content.header)
	footerLines := splitLines(content.footer)
	bodyLines := splitLines(content.body)

	availableForBody := max(i.maxVisible-len(headerLines)-len(footerLines), 1)

	totalBodyLines := len(bodyLines)
	offset := min(i.offset, max(totalBodyLines-availableForBody, 0))
	end := min(offset+availableForBody, totalBodyLines)
	visibleBody := bodyLines[offset:end]

	up, down := " ", " "
	if offset > 0 {
		up = styles.DimStyle.Render("↑ more")
	}
	if end < totalBodyLines {
		down = styles.DimStyle.Render("↓ more")
	}

	parts := []string{titleLine, ""}
	if content.header != "" {
		parts = append(parts, headerLines...)
	}
	parts = append(parts, up)
	parts = append(parts, visibleBody...)
	for range availableForBody - len(visibleBody) {
		parts = append(parts, "")
	}
	parts = append(parts, down)
	if content.footer != "" {
		parts = append(parts, footerLines...)
	}

	// Subtract frame (border) size so total rendered size equals i.width x i.height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(max(i.width-frameW, 0)).
		Height(max(i.height-frameH, 0)).
		Render(strings.Join(parts, "\n"))
}

func (i Inspector) renderInspector(width int) inspectorContent {
	switch {
	case i.entry == nil:
		return inspectorContent{body: styles.DimStyle.Render("Nothing selected")}
	case i.entry.Item == nil:
		return inspectorContent{
			header: styles.TitleStyle.Render(styles.Truncate(i.entry.Label, width)),
			body:   styles.DimStyle.Render("enter to browse"),
		}
	default:
		return inspectorContent{
			header: i.renderItemHeader(*i.entry.Item, width),
			body:   renderItemBody(*i.entry.Item, width),
			footer: i.renderItemFooter(*i.entry.Item, width),
		}
	}
}

func (i Inspector) renderItemHeader(item domain.Item, width int) string {
	favorite := i.entry.Favorite
	if i.detail != nil {
		favorite = i.detail.Favorite
	}

	name := styles.Truncate(item.Name, width-2)
	title := styles.RarityStyle(item.Rarity).Bold(true).Render(name)
	if favorite {
		title += " " + styles.AccentStyle.Render("★")
	}

	meta := []string{string(item.Rarity), string(item.Type)}
	if item.Level > 0 {
		meta = append(meta, fmt.Sprintf("Lv %d", item.Level))
	}
	return title + "\n" + styles.SubtitleStyle.Render(strings.Join(meta, " · "))
}

func renderItemBody(item domain.Item, width int) string {
	var lines []string
	if item.Description != "" {
		lines = append(lines, wordWrap(stripMarkup(item.Description), width), "")
	}
	lines = append(lines, labelValue("ID", fmt.Sprint(item.ID)))
	lines = append(lines, labelValue("Vendor", styles.FormatCoins(item.VendorValue)))
	if item.ChatLink != "" {
		lines = append(lines, labelValue("Link", item.ChatLink))
	}
	if len(item.Flags) > 0 {
		lines = append(lines, "", styles.DimStyle.Render(wordWrap(strings.Join(item.Flags, ", "), width)))
	}
	return strings.Join(lines, "\n")
}

func (i Inspector) renderItemFooter(item domain.Item, width int) string {
	separator := styles.DimStyle.Render(strings.Repeat("─", width))

	switch {
	case i.loading:
		return separator + "\n" + styles.DimStyle.Render("loading prices...")
	case i.detail == nil:
		return separator + "\n" + styles.DimStyle.Render("enter for prices")
	}

	lines := []string{separator}
	if p := i.detail.Price; p.HasTradingData() {
		lines = append(lines,
			labelValue("Buy", fmt.Sprintf("%s (%s)", styles.FormatCoins(p.Buys.UnitPrice), humanize.Comma(int64(p.Buys.Quantity)))),
			labelValue("Sell", fmt.Sprintf("%s (%s)", styles.FormatCoins(p.Sells.UnitPrice), humanize.Comma(int64(p.Sells.Quantity)))),
		)
	} else {
		lines = append(lines, styles.DimStyle.Render("not traded"))
	}
	if c := i.detail.Craft; c != nil {
		lines = append(lines, labelValue("Craft", styles.FormatCoins(c.Total)))
	}
	return strings.Join(lines, "\n")
}

func labelValue(label, value string) string {
	return styles.DimStyle.Render(lipgloss.NewStyle().Width(7).Render(label)) + value
}

// stripMarkup removes the <c=@flavor> color tags from item descriptions
func stripMarkup(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineLen := 0

	for i, word := range strings.Fields(text) {
		wordLen := len([]rune(word))

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
