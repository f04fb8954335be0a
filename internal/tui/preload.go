// Package tui holds the terminal views: the catalog explorer and the
// preload progress display.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/mmcdole/gw2catalog/internal/domain"
	"github.com/mmcdole/gw2catalog/internal/tui/styles"
)

const (
	pollInterval = 200 * time.Millisecond
	maxBarWidth  = 50
)

// ProgressSource reports loader snapshots
type ProgressSource interface {
	PreloadProgress() []domain.LoadProgress
}

type tickMsg time.Time

// PreloadModel polls the loaders and draws one bar per loader. It quits
// once no loader is running, or on q / ctrl+c after calling stop.
type PreloadModel struct {
	source   ProgressSource
	stop     func()
	bar      progress.Model
	spinner  spinner.Model
	snapshot []domain.LoadProgress
	started  time.Time

	done      bool
	cancelled bool
}

// NewPreloadModel creates the view. stop may be nil.
func NewPreloadModel(source ProgressSource, stop func()) PreloadModel {
	return PreloadModel{
		source: source,
		stop:   stop,
		bar: progress.New(
			progress.WithSolidFill(string(styles.Gold)),
			progress.WithWidth(maxBarWidth),
			progress.WithoutPercentage(),
		),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(styles.SpinnerStyle),
		),
		snapshot: source.PreloadProgress(),
		started:  time.Now(),
	}
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m PreloadModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

func (m PreloadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if m.stop != nil {
				m.stop()
			}
			m.cancelled = true
			m.snapshot = m.source.PreloadProgress()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(maxBarWidth, msg.Width-40))

	case tickMsg:
		m.snapshot = m.source.PreloadProgress()
		if !anyRunning(m.snapshot) {
			m.done = true
			return m, tea.Quit
		}
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m PreloadModel) View() string {
	var b strings.Builder

	header := styles.TitleStyle.Render("Preloading catalog")
	if !m.done && !m.cancelled {
		header += " " + m.spinner.View()
	}
	b.WriteString(header + "\n\n")

	for _, p := range m.snapshot {
		name := styles.Pad(p.Name, 8)
		counts := fmt.Sprintf("%s / %s", humanize.Comma(int64(p.Loaded)), humanize.Comma(int64(p.Total)))
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			styles.SubtitleStyle.Render(name), " ",
			m.bar.ViewAs(p.Fraction()), " ",
			styles.Pad(counts, 18), " ",
			stateLabel(p.State),
		)
		b.WriteString(line + "\n")
		if p.Failed > 0 {
			b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("         %d failed batches", p.Failed)) + "\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.cancelled:
		b.WriteString(styles.DimStyle.Render("stopped"))
	case m.done:
		b.WriteString(styles.SuccessStyle.Render("done in " + time.Since(m.started).Round(time.Second).String()))
	default:
		b.WriteString(styles.HelpKeyStyle.Render("q") + " " + styles.HelpDescStyle.Render("stop"))
	}
	return styles.PanelStyle.Render(b.String()) + "\n"
}

// Cancelled reports whether the user stopped the run
func (m PreloadModel) Cancelled() bool {
	return m.cancelled
}

func stateLabel(s domain.LoadState) string {
	switch s {
	case domain.LoadComplete:
		return styles.SuccessStyle.Render(s.String())
	case domain.LoadCancelled:
		return styles.ErrorStyle.Render(s.String())
	case domain.LoadIdle:
		return styles.DimStyle.Render(s.String())
	default:
		return styles.AccentStyle.Render(s.String())
	}
}

func anyRunning(snapshot []domain.LoadProgress) bool {
	for _, p := range snapshot {
		if p.State.Running() {
			return true
		}
	}
	return false
}

// RunPreload shows the progress view until every loader has finished, the
// user quits, or ctx ends. It reports whether the run was cut short.
func RunPreload(ctx context.Context, source ProgressSource, stop func()) (bool, error) {
	p := tea.NewProgram(NewPreloadModel(source, stop), tea.WithContext(ctx))
	final, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		if stop != nil {
			stop()
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("progress view: %w", err)
	}
	m, ok := final.(PreloadModel)
	return ok && m.Cancelled(), nil
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
