package tui

import (
	"github.com/mmcdole/gw2catalog/internal/domain"
	"github.com/mmcdole/gw2catalog/internal/tui/components"
)

// Message types for the explorer

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PageLoadedMsg carries one page of a category listing
type PageLoadedMsg struct {
	Category string
	Page     int
	Search   string
	Result   domain.ItemPage
}

// DetailLoadedMsg carries the price and craft cost of an item
type DetailLoadedMsg struct {
	ItemID int
	Detail components.ItemDetail
}

// FavoriteToggledMsg reports the new favorite state of an item
type FavoriteToggledMsg struct {
	ItemID int
	On     bool
}

// StatusMsg shows a transient message in the footer
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the footer message
type ClearStatusMsg struct{}

// TickMsg advances the loading spinner
type TickMsg struct{}
