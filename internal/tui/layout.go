package tui

// Layout proportions for the Miller columns
const (
	// [Categories | Items | Inspector]
	ParentColumnPercent    = 20
	InspectorColumnPercent = 35

	// [Categories | Items] with the inspector hidden
	ParentColumnPercentNoInspector = 25

	// Root level: [Categories | Inspector]
	RootColumnPercent = 40

	MinColumnWidth = 15

	// Vertical layout: single footer line
	ChromeHeight = 1
)

// columnLayout holds calculated column widths for the View
type columnLayout struct {
	parentWidth    int // 0 if not shown
	activeWidth    int
	inspectorWidth int // 0 if not shown
}

// calculateColumnLayout computes column widths based on stack depth and inspector visibility
func (m Model) calculateColumnLayout(availableWidth int) columnLayout {
	applyMin := func(width int) int {
		return max(width, MinColumnWidth)
	}

	var layout columnLayout
	switch {
	case m.columns.Len() <= 1 && m.showInspector:
		layout.activeWidth = applyMin(availableWidth * RootColumnPercent / 100)
		layout.inspectorWidth = availableWidth - layout.activeWidth
	case m.columns.Len() <= 1:
		layout.activeWidth = availableWidth
	case m.showInspector:
		layout.parentWidth = applyMin(availableWidth * ParentColumnPercent / 100)
		layout.inspectorWidth = applyMin(availableWidth * InspectorColumnPercent / 100)
		layout.activeWidth = applyMin(availableWidth - layout.parentWidth - layout.inspectorWidth)
	default:
		layout.parentWidth = applyMin(availableWidth * ParentColumnPercentNoInspector / 100)
		layout.activeWidth = applyMin(availableWidth - layout.parentWidth)
	}
	return layout
}

// updateLayout resizes the visible columns to the window
func (m *Model) updateLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	contentHeight := m.height - ChromeHeight
	layout := m.calculateColumnLayout(m.width)

	if parent := m.columns.Parent(); parent != nil {
		parent.SetSize(layout.parentWidth, contentHeight)
	}
	m.columns.Top().SetSize(layout.activeWidth, contentHeight)
	if layout.inspectorWidth > 0 {
		m.inspector.SetSize(layout.inspectorWidth, contentHeight)
	}
	m.help.Width = m.width
}
