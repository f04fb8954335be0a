package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/gw2catalog/internal/domain"
	"github.com/mmcdole/gw2catalog/internal/tui/components"
)

// Command factories for async operations

const (
	pageTimeout   = 60 * time.Second
	detailTimeout = 30 * time.Second
)

// LoadPageCmd loads one page of a category. The favorites category is
// served from the favorites list and is never paged.
func LoadPageCmd(ctx context.Context, ex Explorer, category string, page int, search string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, pageTimeout)
		defer cancel()

		if category == CategoryFavorites {
			items, err := ex.FavoriteItems(ctx)
			if err != nil {
				return ErrMsg{Err: err, Context: "loading favorites"}
			}
			return PageLoadedMsg{Category: category, Result: domain.ItemPage{Items: items, TotalCount: len(items)}}
		}

		result, err := ex.ListByCategory(ctx, category, page, PageSize, domain.FilterParams{Search: search})
		if err != nil {
			return ErrMsg{Err: err, Context: fmt.Sprintf("loading %s", category)}
		}
		return PageLoadedMsg{Category: category, Page: page, Search: search, Result: result}
	}
}

// LoadDetailCmd fetches the quote and craft cost of an item
func LoadDetailCmd(ctx context.Context, ex Explorer, itemID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, detailTimeout)
		defer cancel()

		price, err := ex.Price(ctx, itemID)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading price"}
		}

		detail := components.ItemDetail{Price: price, Favorite: ex.IsFavorite(itemID)}
		cost, err := ex.CraftCost(ctx, itemID)
		switch {
		case err == nil:
			detail.Craft = &cost
		case !errors.Is(err, domain.ErrNotCraftable):
			return ErrMsg{Err: err, Context: "loading craft cost"}
		}
		return DetailLoadedMsg{ItemID: itemID, Detail: detail}
	}
}

// ToggleFavoriteCmd flips the favorite mark of an item
func ToggleFavoriteCmd(ex Explorer, itemID int) tea.Cmd {
	return func() tea.Msg {
		on, err := ex.ToggleFavorite(itemID)
		if err != nil {
			return ErrMsg{Err: err, Context: "toggling favorite"}
		}
		return FavoriteToggledMsg{ItemID: itemID, On: on}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
