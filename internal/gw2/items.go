package gw2

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mmcdole/gw2catalog/internal/domain"
)

// ItemIDs returns every item ID
func (c *Client) ItemIDs(ctx context.Context) ([]int, error) {
	body, err := c.doRequest(ctx, "/items", nil)
	if err != nil {
		return nil, fmt.Errorf("item ids: %w", err)
	}
	return decodeBody[[]int]("/items", body)
}

// Item returns one item. A missing item yields an error wrapping domain.ErrNotFound.
func (c *Client) Item(ctx context.Context, id int) (domain.Item, error) {
	path := "/items/" + strconv.Itoa(id)
	body, err := c.doRequest(ctx, path, nil)
	if err != nil {
		return domain.Item{}, fmt.Errorf("item %d: %w", id, err)
	}
	return decodeBody[domain.Item](path, body)
}

// Items returns the items for ids in chunks of at most MaxIDsPerRequest.
func (c *Client) Items(ctx context.Context, ids []int) ([]domain.Item, error) {
	return fetchChunked(ctx, ids, c.maxIDs, func(ctx context.Context, chunk []int) ([]domain.Item, error) {
		body, err := c.doRequest(ctx, "/items", idsQuery(chunk))
		if err != nil {
			return nil, err
		}
		return decodeBody[[]domain.Item]("/items", body)
	})
}

// ItemsPage returns one page of the full item listing (page is zero-based)
func (c *Client) ItemsPage(ctx context.Context, page, pageSize int) ([]domain.Item, error) {
	if pageSize <= 0 || pageSize > c.maxIDs {
		pageSize = c.maxIDs
	}
	query := url.Values{
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	}
	body, err := c.doRequest(ctx, "/items", query)
	if err != nil {
		return nil, fmt.Errorf("items page %d: %w", page, err)
	}
	return decodeBody[[]domain.Item]("/items", body)
}
