package tui

import (
	"github.com/mmcdole/gw2catalog/internal/tui/components"
)

// ColumnStack manages the navigable columns of the Miller layout.
//
//	Root:     [Categories | Inspector]
//	Category: [Categories | Weapon | Inspector]
//
// The top of the stack is always focused; the inspector is a separate
// projection of its selection.
type ColumnStack struct {
	columns     []*components.ListColumn
	cursorStack []int // saved cursor positions for back navigation
}

// NewColumnStack creates a stack with root focused
func NewColumnStack(root *components.ListColumn) *ColumnStack {
	root.SetFocused(true)
	return &ColumnStack{columns: []*components.ListColumn{root}}
}

// Len returns the number of columns in the stack
func (cs *ColumnStack) Len() int {
	return len(cs.columns)
}

// Top returns the focused column
func (cs *ColumnStack) Top() *components.ListColumn {
	if len(cs.columns) == 0 {
		return nil
	}
	return cs.columns[len(cs.columns)-1]
}

// Parent returns the column below the top, or nil at the root
func (cs *ColumnStack) Parent() *components.ListColumn {
	if len(cs.columns) < 2 {
		return nil
	}
	return cs.columns[len(cs.columns)-2]
}

// Push adds a column and focuses it, remembering the cursor it was opened from
func (cs *ColumnStack) Push(col *components.ListColumn) {
	top := cs.Top()
	cursor := 0
	if top != nil {
		cursor = top.SelectedIndex()
		top.SetFocused(false)
	}
	cs.cursorStack = append(cs.cursorStack, cursor)

	col.SetFocused(true)
	cs.columns = append(cs.columns, col)
}

// Pop removes the top column and restores the parent's cursor. The root
// column is never popped.
func (cs *ColumnStack) Pop() *components.ListColumn {
	if len(cs.columns) <= 1 {
		return nil
	}

	popped := cs.columns[len(cs.columns)-1]
	popped.SetFocused(false)
	cs.columns = cs.columns[:len(cs.columns)-1]

	top := cs.Top()
	top.SetFocused(true)
	if n := len(cs.cursorStack); n > 0 {
		top.SetSelectedIndex(cs.cursorStack[n-1])
		cs.cursorStack = cs.cursorStack[:n-1]
	}
	return popped
}

// CanGoBack returns true if we can navigate back (not at root)
func (cs *ColumnStack) CanGoBack() bool {
	return len(cs.columns) > 1
}

// UpdateSpinnerFrame updates the spinner frame for all columns
func (cs *ColumnStack) UpdateSpinnerFrame(frame int) {
	for _, col := range cs.columns {
		col.SetSpinnerFrame(frame)
	}
}
