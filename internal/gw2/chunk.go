package gw2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// joinIDs flattens ids as the API expects: 1,2,3
func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func idsQuery(ids []int) url.Values {
	return url.Values{"ids": {joinIDs(ids)}}
}

func decodeBody[T any](path string, body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return v, nil
}

// fetchChunked issues one sequential request per chunk of at most size ids.
// A failed chunk does not stop later ones; the records of the successful
// chunks are returned with the joined chunk errors.
func fetchChunked[T any](
	ctx context.Context,
	ids []int,
	size int,
	fetch func(ctx context.Context, chunk []int) ([]T, error),
) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if size <= 0 {
		size = MaxIDsPerRequest
	}

	out := make([]T, 0, len(ids))
	var errs []error
	for chunk := range slices.Chunk(ids, size) {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		recs, err := fetch(ctx, chunk)
		if err != nil {
			errs = append(errs, fmt.Errorf("chunk of %d ids starting at %d: %w", len(chunk), chunk[0], err))
			continue
		}
		out = append(out, recs...)
	}
	return out, errors.Join(errs...)
}
