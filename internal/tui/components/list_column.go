package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/gw2catalog/internal/domain"
	"github.com/mmcdole/gw2catalog/internal/tui/styles"
)

// Spinner frames for loading animation
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SpinnerFrame returns the spinner glyph for an animation frame
func SpinnerFrame(frame int) string {
	return styles.SpinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)])
}

// Layout constants for list columns
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// Entry is one row of a list column. Category rows carry only a Key.
type Entry struct {
	Key      string
	Label    string
	Detail   string
	Item     *domain.Item
	Favorite bool
}

// ItemEntries builds rows for items, marking the favorites
func ItemEntries(items []domain.Item, isFavorite func(int) bool) []Entry {
	entries := make([]Entry, len(items))
	for i := range items {
		item := items[i]
		detail := ""
		if item.Level > 0 {
			detail = fmt.Sprintf("Lv %d", item.Level)
		}
		entries[i] = Entry{
			Key:      fmt.Sprint(item.ID),
			Label:    item.Name,
			Detail:   detail,
			Item:     &item,
			Favorite: isFavorite != nil && isFavorite(item.ID),
		}
	}
	return entries
}

// ListColumn is a scrollable, filterable list of entries
type ListColumn struct {
	entries    []Entry
	columnType ColumnType

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	// Column title (shown in header)
	title string

	// Loading state
	loading      bool
	spinnerFrame int

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into entries
	matches      map[int][]int
}

// NewListColumn creates a new list column with the given type and title
func NewListColumn(colType ColumnType, title string) *ListColumn {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &ListColumn{
		columnType:  colType,
		title:       title,
		filterInput: ti,
	}
}

// NewCategoryColumn creates the root column listing category names
func NewCategoryColumn(categories []Entry) *ListColumn {
	col := NewListColumn(ColumnTypeCategories, "Categories")
	col.entries = categories
	return col
}

// NewItemColumn creates a column for one page of items
func NewItemColumn(title string) *ListColumn {
	col := NewListColumn(ColumnTypeItems, title)
	col.loading = true
	return col
}

func (c *ListColumn) Update(msg tea.Msg) (*ListColumn, tea.Cmd) {
	if !c.focused {
		return c, nil
	}

	keyMsg, isKey := msg.(tea.KeyMsg)

	// Typing into the filter
	if c.filterActive && c.filterInput.Focused() {
		if isKey {
			switch {
			case key.Matches(keyMsg, listColumnKeys.Escape):
				c.clearFilter()
				return c, nil
			case key.Matches(keyMsg, listColumnKeys.Accept):
				c.filterInput.Blur()
				return c, nil
			case keyMsg.String() == "backspace" && c.filterInput.Value() == "":
				c.clearFilter()
				return c, nil
			}
		}

		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		c.applyFilter()
		return c, cmd
	}

	// Filter applied but blurred: navigation over the matches
	if c.filterActive && isKey {
		switch {
		case key.Matches(keyMsg, listColumnKeys.Escape):
			c.clearFilter()
			return c, nil
		case key.Matches(keyMsg, listColumnKeys.Filter):
			c.filterInput.Focus()
			return c, nil
		}
	}

	count := c.ItemCount()
	if count == 0 || !isKey {
		return c, nil
	}

	switch {
	case key.Matches(keyMsg, listColumnKeys.Down):
		if c.cursor < count-1 {
			c.cursor++
			c.ensureVisible()
		}
	case key.Matches(keyMsg, listColumnKeys.Up):
		if c.cursor > 0 {
			c.cursor--
			c.ensureVisible()
		}
	case key.Matches(keyMsg, listColumnKeys.Home):
		c.cursor = 0
		c.offset = 0
	case key.Matches(keyMsg, listColumnKeys.End):
		c.cursor = count - 1
		c.ensureVisible()
	case key.Matches(keyMsg, listColumnKeys.HalfDown):
		c.cursor = min(c.cursor+c.maxVisible/2, count-1)
		c.ensureVisible()
	case key.Matches(keyMsg, listColumnKeys.HalfUp):
		c.cursor = max(c.cursor-c.maxVisible/2, 0)
		c.ensureVisible()
	}

	return c, nil
}

func (c *ListColumn) View() string {
	style := styles.InactiveBorder
	if c.focused {
		style = styles.ActiveBorder
	}

	// Subtract frame (border) size so total rendered size equals c.width x c.height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(max(c.width-frameW, 0)).
		Height(max(c.height-frameH, 0)).
		Render(c.renderContent())
}

func (c *ListColumn) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible()
}

func (c *ListColumn) SetFocused(focused bool) {
	c.focused = focused
}

func (c *ListColumn) SetTitle(title string) {
	c.title = title
}

// ColumnType returns the column's content type
func (c *ListColumn) ColumnType() ColumnType {
	return c.columnType
}

// Selected returns the entry under the cursor
func (c *ListColumn) Selected() (Entry, bool) {
	count := c.ItemCount()
	if count == 0 || c.cursor >= count {
		return Entry{}, false
	}
	return c.entries[c.mapIndex(c.cursor)], true
}

// SelectedItem returns the item under the cursor in an item column
func (c *ListColumn) SelectedItem() *domain.Item {
	e, ok := c.Selected()
	if !ok {
		return nil
	}
	return e.Item
}

func (c *ListColumn) SelectedIndex() int {
	return c.cursor
}

func (c *ListColumn) SetSelectedIndex(idx int) {
	last := c.ItemCount() - 1
	if last < 0 {
		c.cursor = 0
		return
	}
	c.cursor = min(max(idx, 0), last)
	c.ensureVisible()
}

func (c *ListColumn) ItemCount() int {
	if c.filteredIdx != nil {
		return len(c.filteredIdx)
	}
	return len(c.entries)
}

func (c *ListColumn) IsEmpty() bool {
	return c.ItemCount() == 0
}

func (c *ListColumn) SetLoading(loading bool) {
	c.loading = loading
}

func (c *ListColumn) IsLoading() bool {
	return c.loading
}

// SetEntries replaces the rows, resetting cursor and filter
func (c *ListColumn) SetEntries(entries []Entry) {
	c.loading = false
	c.cursor = 0
	c.offset = 0
	c.clearFilter()
	c.entries = entries
}

// SetFavorite updates the favorite mark of the row with key
func (c *ListColumn) SetFavorite(key string, on bool) {
	for i := range c.entries {
		if c.entries[i].Key == key {
			c.entries[i].Favorite = on
		}
	}
}

// SetSpinnerFrame updates the spinner animation frame
func (c *ListColumn) SetSpinnerFrame(frame int) {
	c.spinnerFrame = frame
}

// ToggleFilter activates the filter input
func (c *ListColumn) ToggleFilter() {
	c.filterActive = true
	c.filterInput.Focus()
	c.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (c *ListColumn) IsFiltering() bool {
	return c.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (c *ListColumn) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// FilterQuery returns the current filter text
func (c *ListColumn) FilterQuery() string {
	return c.filterQuery
}

// ClearFilter deactivates the filter and shows all rows
func (c *ListColumn) ClearFilter() {
	c.clearFilter()
}

func (c *ListColumn) recalcMaxVisible() {
	// Reserve the title line and both scroll indicators
	c.maxVisible = c.height - BorderHeight - ScrollIndicatorLines - 1
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *ListColumn) ensureVisible() {
	// Don't adjust offset if size hasn't been set yet
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

func (c *ListColumn) clearFilter() {
	c.filterActive = false
	c.filterQuery = ""
	c.filteredIdx = nil
	c.matches = nil
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
}

func (c *ListColumn) applyFilter() {
	query := c.filterInput.Value()
	c.filterQuery = query
	c.cursor = 0
	c.offset = 0

	if query == "" {
		c.filteredIdx = nil
		c.matches = nil
		return
	}

	labels := make([]string, len(c.entries))
	for i, e := range c.entries {
		labels[i] = strings.ToLower(e.Label)
	}
	found := fuzzy.Find(strings.ToLower(query), labels)

	c.filteredIdx = make([]int, len(found))
	c.matches = make(map[int][]int, len(found))
	for i, match := range found {
		c.filteredIdx[i] = match.Index
		c.matches[match.Index] = match.MatchedIndexes
	}
}

func (c *ListColumn) mapIndex(i int) int {
	if c.filteredIdx != nil && i < len(c.filteredIdx) {
		return c.filteredIdx[i]
	}
	return i
}

// Rendering

func (c *ListColumn) renderContent() string {
	itemWidth := max(c.width-BorderWidth, 10)
	titleLine := styles.AccentStyle.Render(styles.Truncate(c.title, itemWidth))

	if c.loading {
		return titleLine + "\n \n" + SpinnerFrame(c.spinnerFrame) + styles.DimStyle.Render(" Loading...") + "\n "
	}

	count := c.ItemCount()
	if count == 0 {
		msg := "No items"
		if c.filterActive && c.filterQuery != "" {
			msg = "No matches"
		}
		content := titleLine + "\n \n" + styles.DimStyle.Render(msg) + "\n "
		if c.filterActive {
			content += "\n" + c.renderFilterBar()
		}
		return content
	}

	end := min(c.offset+c.maxVisible, count)
	lines := make([]string, 0, end-c.offset)
	for i := c.offset; i < end; i++ {
		idx := c.mapIndex(i)
		lines = append(lines, c.renderEntry(c.entries[idx], c.matches[idx], i == c.cursor, itemWidth))
	}

	// Always reserve the indicator lines to prevent layout shifts
	header, footer := " ", " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if c.filterActive {
		content += "\n" + c.renderFilterBar()
	}
	return content
}

func (c *ListColumn) renderEntry(e Entry, matched []int, selected bool, width int) string {
	marker, markerFg := "  ", styles.DimGray
	if e.Favorite {
		marker, markerFg = "★ ", styles.Gold
	}

	var nameFg *lipgloss.Color
	if e.Item != nil {
		fg := styles.RarityColor(e.Item.Rarity)
		nameFg = &fg
	}

	detail := ""
	if e.Detail != "" {
		detail = " " + e.Detail
	}
	available := max(width-4-lipgloss.Width(detail), 5)
	label := styles.Truncate(e.Label, available)

	parts := []styles.RowPart{{Text: marker, Foreground: &markerFg}}
	if len(matched) > 0 && len(label) == len(e.Label) {
		parts = append(parts, highlightParts(label, matched, nameFg)...)
	} else {
		parts = append(parts, styles.RowPart{Text: label, Foreground: nameFg})
	}
	if detail != "" {
		dim := styles.DimGray
		parts = append(parts, styles.RowPart{Text: detail, Foreground: &dim})
	}
	return styles.RenderListRow(parts, selected, width)
}

// highlightParts splits label so the matched byte offsets render in gold
func highlightParts(label string, matched []int, fg *lipgloss.Color) []styles.RowPart {
	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}
	gold := styles.Gold

	var parts []styles.RowPart
	for i, ch := range label {
		part := styles.RowPart{Text: string(ch), Foreground: fg}
		if hit[i] {
			part.Foreground = &gold
		}
		parts = append(parts, part)
	}
	return parts
}

func (c *ListColumn) renderFilterBar() string {
	input := c.filterInput.View()
	if c.filterQuery == "" {
		return input
	}
	return input + styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", c.ItemCount(), len(c.entries)))
}
