package gw2

import (
	"context"
	"strconv"

	"github.com/mmcdole/gw2catalog/internal/domain"
)

// Price returns the trading post quote for id, or domain.EmptyPrice(id) when
// the item is not traded or the request fails.
func (c *Client) Price(ctx context.Context, id int) (domain.ItemPrice, error) {
	path := "/commerce/prices/" + strconv.Itoa(id)
	body, err := c.doRequest(ctx, path, nil)
	if err == nil {
		var p domain.ItemPrice
		p, err = decodeBody[domain.ItemPrice](path, body)
		if err == nil {
			return p, nil
		}
	}
	if ctx.Err() != nil {
		return domain.EmptyPrice(id), ctx.Err()
	}
	c.soften(path, err)
	return domain.EmptyPrice(id), nil
}

// Prices returns the quotes that could be fetched. Untraded ids and failed
// chunks are omitted; callers fill in placeholders.
func (c *Client) Prices(ctx context.Context, ids []int) ([]domain.ItemPrice, error) {
	prices, err := fetchChunked(ctx, ids, c.maxIDs, func(ctx context.Context, chunk []int) ([]domain.ItemPrice, error) {
		body, err := c.doRequest(ctx, "/commerce/prices", idsQuery(chunk))
		if err != nil {
			return nil, err
		}
		return decodeBody[[]domain.ItemPrice]("/commerce/prices", body)
	})
	if err != nil {
		if ctx.Err() != nil {
			return prices, ctx.Err()
		}
		c.soften("/commerce/prices", err)
	}
	if prices == nil {
		prices = []domain.ItemPrice{}
	}
	return prices, nil
}
