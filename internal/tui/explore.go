package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mmcdole/gw2catalog/internal/domain"
	"github.com/mmcdole/gw2catalog/internal/tui/components"
	"github.com/mmcdole/gw2catalog/internal/tui/styles"
)

//go:generate mockgen -package=tui -destination=mock_explorer_test.go -source=explore.go Explorer

// Explorer is the catalog surface the explorer browses
type Explorer interface {
	ListByCategory(ctx context.Context, category string, page, pageSize int, filters domain.FilterParams) (domain.ItemPage, error)
	FavoriteItems(ctx context.Context) ([]domain.Item, error)
	Price(ctx context.Context, id int) (domain.ItemPrice, error)
	CraftCost(ctx context.Context, itemID int) (domain.CraftCost, error)
	ToggleFavorite(id int) (bool, error)
	IsFavorite(id int) bool
}

const (
	// PageSize is the number of items per category page
	PageSize = 100

	// CategoryAll lists every item
	CategoryAll = "all"
	// CategoryFavorites lists the favorite items
	CategoryFavorites = "favorites"

	tickInterval = 100 * time.Millisecond
	statusTTL    = 4 * time.Second
)

// Model is the explorer's Bubble Tea model
type Model struct {
	ctx      context.Context
	explorer Explorer

	columns   *ColumnStack
	inspector components.Inspector
	help      help.Model
	details   map[int]components.ItemDetail

	// Current listing
	category string
	page     int
	search   string
	total    int
	hasMore  bool

	// Dimensions
	width  int
	height int
	ready  bool

	// UI state
	loading       bool
	spinnerFrame  int
	statusMsg     string
	statusIsErr   bool
	showInspector bool
	showHelp      bool
}

// NewModel creates the explorer rooted at the category list
func NewModel(ctx context.Context, ex Explorer) Model {
	m := Model{
		ctx:           ctx,
		explorer:      ex,
		columns:       NewColumnStack(components.NewCategoryColumn(CategoryEntries())),
		inspector:     components.NewInspector(),
		help:          help.New(),
		details:       make(map[int]components.ItemDetail),
		showInspector: true,
	}
	m.syncInspector()
	return m
}

// CategoryEntries returns the rows of the root column
func CategoryEntries() []components.Entry {
	entries := []components.Entry{
		{Key: CategoryAll, Label: "All items"},
		{Key: CategoryFavorites, Label: "Favorites"},
	}
	for _, t := range domain.ItemTypes {
		entries = append(entries, components.Entry{Key: string(t), Label: splitWords(string(t))})
	}
	return entries
}

// splitWords turns "CraftingMaterial" into "Crafting Material"
func splitWords(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (m Model) Init() tea.Cmd {
	return TickCmd(tickInterval)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.spinnerFrame++
		if m.loading {
			m.columns.UpdateSpinnerFrame(m.spinnerFrame)
		}
		return m, TickCmd(tickInterval)

	case PageLoadedMsg:
		// Drop responses for a listing the user already left
		if msg.Category != m.category || msg.Page != m.page || msg.Search != m.search {
			return m, nil
		}
		m.loading = false
		m.total = msg.Result.TotalCount
		m.hasMore = msg.Result.HasMore
		if top := m.columns.Top(); top.ColumnType() == components.ColumnTypeItems {
			top.SetEntries(components.ItemEntries(msg.Result.Items, m.explorer.IsFavorite))
			top.SetTitle(m.listingTitle())
		}
		m.syncInspector()
		return m, nil

	case DetailLoadedMsg:
		m.details[msg.ItemID] = msg.Detail
		if m.inspectedItemID() == msg.ItemID {
			detail := msg.Detail
			m.inspector.SetDetail(&detail)
		}
		return m, nil

	case FavoriteToggledMsg:
		return m.handleFavoriteToggled(msg)

	case ErrMsg:
		m.loading = false
		if top := m.columns.Top(); top.IsLoading() {
			top.SetEntries(nil)
		}
		m.inspector.SetLoading(false)
		return m.setStatus(msg.Error(), true)

	case StatusMsg:
		return m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.statusMsg = ""
		m.statusIsErr = false
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	top := m.columns.Top()

	// Text entry owns the keyboard while the filter is focused
	if top.IsFilterTyping() {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if msg.String() == "enter" && m.canSearchRemotely() && top.FilterQuery() != "" {
			return m.startSearch(top.FilterQuery())
		}
		_, cmd := top.Update(msg)
		m.syncInspector()
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, Keys.Filter):
		top.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if top.IsFiltering() {
			top.Update(msg)
			m.syncInspector()
			return m, nil
		}
		if m.search != "" {
			return m.startSearch("")
		}
		return m, nil

	case key.Matches(msg, Keys.Back):
		if m.columns.CanGoBack() {
			m.columns.Pop()
			m.resetListing("")
			m.updateLayout()
			m.syncInspector()
		}
		return m, nil

	case key.Matches(msg, Keys.Enter):
		return m.handleEnter()

	case key.Matches(msg, Keys.NextPage):
		if m.inListing() && m.hasMore && !m.loading {
			m.page++
			return m, m.reload()
		}
		return m, nil

	case key.Matches(msg, Keys.PrevPage):
		if m.inListing() && m.page > 0 && !m.loading {
			m.page--
			return m, m.reload()
		}
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		if id := m.inspectedItemID(); id != 0 {
			delete(m.details, id)
			m.inspector.SetDetail(nil)
		}
		if m.inListing() {
			return m, m.reload()
		}
		return m, nil

	case key.Matches(msg, Keys.Favorite):
		if item := top.SelectedItem(); item != nil {
			return m, ToggleFavoriteCmd(m.explorer, item.ID)
		}
		return m, nil

	case key.Matches(msg, Keys.ToggleInspector):
		m.showInspector = !m.showInspector
		m.updateLayout()
		return m, nil

	case key.Matches(msg, Keys.ScrollDn):
		m.inspector.ScrollDown()
		return m, nil

	case key.Matches(msg, Keys.ScrollUp):
		m.inspector.ScrollUp()
		return m, nil
	}

	top.Update(msg)
	m.syncInspector()
	return m, nil
}

// handleEnter drills into a category, or loads prices for an item
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	top := m.columns.Top()
	entry, ok := top.Selected()
	if !ok {
		return m, nil
	}

	if top.ColumnType() == components.ColumnTypeCategories {
		m.columns.Push(components.NewItemColumn(entry.Label))
		m.resetListing(entry.Key)
		m.updateLayout()
		m.syncInspector()
		return m, m.reload()
	}

	if entry.Item == nil {
		return m, nil
	}
	if detail, ok := m.details[entry.Item.ID]; ok {
		m.inspector.SetDetail(&detail)
		return m, nil
	}
	m.inspector.SetLoading(true)
	return m, LoadDetailCmd(m.ctx, m.explorer, entry.Item.ID)
}

func (m Model) handleFavoriteToggled(msg FavoriteToggledMsg) (tea.Model, tea.Cmd) {
	if detail, ok := m.details[msg.ItemID]; ok {
		detail.Favorite = msg.On
		m.details[msg.ItemID] = detail
		if m.inspectedItemID() == msg.ItemID {
			m.inspector.SetDetail(&detail)
		}
	}
	m.columns.Top().SetFavorite(strconv.Itoa(msg.ItemID), msg.On)
	m.syncInspector()

	m.statusMsg = fmt.Sprintf("Removed %d from favorites", msg.ItemID)
	if msg.On {
		m.statusMsg = fmt.Sprintf("Added %d to favorites", msg.ItemID)
	}
	m.statusIsErr = false

	cmds := []tea.Cmd{ClearStatusCmd(statusTTL)}
	if m.category == CategoryFavorites && !msg.On {
		cmds = append(cmds, m.reload())
	}
	return m, tea.Batch(cmds...)
}

// startSearch re-queries the current category with a server-side search
func (m Model) startSearch(query string) (tea.Model, tea.Cmd) {
	m.columns.Top().ClearFilter()
	m.search = query
	m.page = 0
	return m, m.reload()
}

// reload marks the listing as loading and fetches the current page
func (m *Model) reload() tea.Cmd {
	m.loading = true
	top := m.columns.Top()
	top.SetLoading(true)
	top.SetTitle(m.listingTitle())
	return LoadPageCmd(m.ctx, m.explorer, m.category, m.page, m.search)
}

func (m *Model) resetListing(category string) {
	m.category = category
	m.page = 0
	m.search = ""
	m.total = 0
	m.hasMore = false
	m.loading = false
}

func (m Model) inListing() bool {
	return m.columns.Top().ColumnType() == components.ColumnTypeItems
}

// canSearchRemotely reports whether enter in the filter should query the catalog
func (m Model) canSearchRemotely() bool {
	return m.inListing() && m.category != CategoryFavorites
}

func (m Model) listingTitle() string {
	label := m.category
	if parent := m.columns.Parent(); parent != nil {
		if e, ok := parent.Selected(); ok {
			label = e.Label
		}
	}
	if m.page > 0 {
		label += fmt.Sprintf(" · p%d", m.page+1)
	}
	if m.search != "" {
		label += fmt.Sprintf(" %q", m.search)
	}
	return label
}

// syncInspector points the inspector at the focused selection, keeping
// loaded detail when the selection has not changed
func (m *Model) syncInspector() {
	entry, ok := m.columns.Top().Selected()
	if !ok {
		m.inspector.SetEntry(nil)
		return
	}
	if cur := m.inspector.Entry(); cur != nil && cur.Key == entry.Key {
		cur.Favorite = entry.Favorite
		return
	}

	m.inspector.SetEntry(&entry)
	if entry.Item != nil {
		if detail, ok := m.details[entry.Item.ID]; ok {
			m.inspector.SetDetail(&detail)
		}
	}
}

func (m Model) inspectedItemID() int {
	if e := m.inspector.Entry(); e != nil && e.Item != nil {
		return e.Item.ID
	}
	return 0
}

func (m Model) setStatus(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.statusMsg = text
	m.statusIsErr = isErr
	return m, ClearStatusCmd(statusTTL)
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			styles.PanelStyle.Render(m.help.FullHelpView(Keys.FullHelp())))
	}

	var views []string
	if parent := m.columns.Parent(); parent != nil {
		views = append(views, parent.View())
	}
	views = append(views, m.columns.Top().View())
	if m.calculateColumnLayout(m.width).inspectorWidth > 0 {
		views = append(views, m.inspector.View())
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, views...)
	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderFooter())
}

func (m Model) renderFooter() string {
	var left string
	switch {
	case m.loading:
		left = components.SpinnerFrame(m.spinnerFrame) + " " + styles.DimStyle.Render("Loading...")
	case m.statusIsErr:
		left = styles.StatusErrorStyle.Render(m.statusMsg)
	case m.statusMsg != "":
		left = styles.StatusBarStyle.Render(m.statusMsg)
	}

	var center string
	if m.inListing() && m.total > 0 {
		center = styles.DimStyle.Render(fmt.Sprintf("%s items", humanize.Comma(int64(m.total))))
		if m.hasMore || m.page > 0 {
			center += "  " + styles.AccentStyle.Render("n/p") + styles.DimStyle.Render(" page")
		}
	}

	right := m.help.ShortHelpView(Keys.ShortHelp())

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.width {
		gap := max(m.width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// RunExplore runs the explorer full screen until the user quits or ctx ends
func RunExplore(ctx context.Context, ex Explorer) error {
	p := tea.NewProgram(NewModel(ctx, ex), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("explorer: %w", err)
	}
	return nil
}
