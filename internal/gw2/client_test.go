package gw2_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mmcdole/gw2catalog/internal/domain"
	"github.com/mmcdole/gw2catalog/internal/gw2"
)

func jsonResponse(t *testing.T, status int, v any) *http.Response {
	t.Helper()

	buffer := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(buffer).Encode(v))
	return &http.Response{StatusCode: status, Header: http.Header{}, Body: io.NopCloser(buffer)}
}

func queryIDs(t *testing.T, req *http.Request) []int {
	t.Helper()

	raw := req.URL.Query().Get("ids")
	require.NotEmpty(t, raw)
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(part)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func newClient(httpClient gw2.HTTPClient, opts ...gw2.Option) *gw2.Client {
	opts = append([]gw2.Option{
		gw2.WithBaseURL("https://gw2.test/v2"),
		gw2.WithHTTPClient(httpClient),
		gw2.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	return gw2.NewClient(opts...)
}

func TestItemsChunksLongIDLists(t *testing.T) {
	t.Parallel()

	// Arrange: 450 ids
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	ids := make([]int, 450)
	for i := range ids {
		ids[i] = 1000 + i
	}

	var chunkSizes []int
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, http.MethodGet, req.Method)
			require.Equal(t, "/v2/items", req.URL.Path)

			chunk := queryIDs(t, req)
			chunkSizes = append(chunkSizes, len(chunk))
			items := make([]domain.Item, len(chunk))
			for i, id := range chunk {
				items[i] = domain.Item{ID: id, Name: "item " + strconv.Itoa(id)}
			}
			return jsonResponse(t, http.StatusOK, items), nil
		}).
		Times(3)

	client := newClient(httpClient)

	// Act
	items, err := client.Items(t.Context(), ids)

	// Assert: 200, 200, 50 and input order
	require.NoError(t, err)
	require.Equal(t, []int{200, 200, 50}, chunkSizes)
	require.Len(t, items, 450)
	for i, item := range items {
		require.Equal(t, ids[i], item.ID)
	}
}

func TestItemsReturnsPartialResultOnChunkFailure(t *testing.T) {
	t.Parallel()

	// Arrange: the second of two chunks fails
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	gomock.InOrder(
		httpClient.EXPECT().Do(gomock.Any()).Return(jsonResponse(t, http.StatusOK, []domain.Item{{ID: 1}, {ID: 2}}), nil),
		httpClient.EXPECT().Do(gomock.Any()).Return(jsonResponse(t, http.StatusServiceUnavailable, map[string]string{"text": "down"}), nil),
	)

	client := newClient(httpClient, gw2.WithMaxIDsPerRequest(2))

	// Act
	items, err := client.Items(t.Context(), []int{1, 2, 3, 4})

	// Assert
	require.Len(t, items, 2)
	require.ErrorIs(t, err, domain.ErrRemoteUnavailable)

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
}

func TestItemNotFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "/v2/items/999999", req.URL.Path)
			return jsonResponse(t, http.StatusNotFound, map[string]string{"text": "no such id"}), nil
		})

	client := newClient(httpClient)

	_, err := client.Item(t.Context(), 999999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemTransportError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().Do(gomock.Any()).Return(nil, errors.New("connection refused"))

	client := newClient(httpClient)

	_, err := client.Item(t.Context(), 1)
	require.ErrorIs(t, err, domain.ErrRemoteUnavailable)
}

func TestPriceNotFoundIsPlaceholder(t *testing.T) {
	t.Parallel()

	// Arrange
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "/v2/commerce/prices/12345", req.URL.Path)
			return jsonResponse(t, http.StatusNotFound, map[string]string{"text": "no such id"}), nil
		})

	client := newClient(httpClient)

	// Act
	price, err := client.Price(t.Context(), 12345)

	// Assert: all-zero quote, no error
	require.NoError(t, err)
	require.Equal(t, domain.ItemPrice{ID: 12345}, price)
	require.False(t, price.HasTradingData())
}

func TestPricesSoftensTransportFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().Do(gomock.Any()).Return(nil, errors.New("timeout"))

	client := newClient(httpClient)

	prices, err := client.Prices(t.Context(), []int{1, 2})
	require.NoError(t, err)
	require.NotNil(t, prices)
	require.Empty(t, prices)
}

func TestRecipeNotFoundIsAbsent(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().Do(gomock.Any()).Return(jsonResponse(t, http.StatusNotFound, map[string]string{"text": "no such id"}), nil)

	client := newClient(httpClient)

	recipe, found, err := client.Recipe(t.Context(), 7)
	require.NoError(t, err)
	require.False(t, found)
	require.Zero(t, recipe)
}

func TestSearchRecipesByOutput(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "/v2/recipes/search", req.URL.Path)
			require.Equal(t, "19685", req.URL.Query().Get("output"))
			return jsonResponse(t, http.StatusOK, []int{21, 22}), nil
		})

	client := newClient(httpClient)

	ids, err := client.SearchRecipesByOutput(t.Context(), 19685)
	require.NoError(t, err)
	require.Equal(t, []int{21, 22}, ids)
}

func TestRequestCacheServesIdenticalRequests(t *testing.T) {
	t.Parallel()

	// Arrange: one network call allowed
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(jsonResponse(t, http.StatusOK, domain.Item{ID: 19721, Name: "Glob of Ectoplasm"}), nil).
		Times(1)

	memo := gw2.NewRequestCache(16, 0)
	client := newClient(httpClient, gw2.WithRequestCache(memo))

	// Act
	first, err := client.Item(t.Context(), 19721)
	require.NoError(t, err)
	second, err := client.Item(t.Context(), 19721)
	require.NoError(t, err)

	// Assert
	require.Equal(t, first, second)
	require.Equal(t, 1, memo.Len())
}

func TestRequestCacheFetchOutlivesCancelledCaller(t *testing.T) {
	t.Parallel()

	// Arrange: the first caller's fetch blocks until released
	memo := gw2.NewRequestCache(16, 0)
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) ([]byte, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []byte(`{"id":19721}`), nil
	}

	ctx, cancel := context.WithCancel(t.Context())
	firstErr := make(chan error, 1)
	go func() {
		_, _, err := memo.Do(ctx, "items/19721", fetch)
		firstErr <- err
	}()
	<-started

	// Act: the first caller gives up while the fetch is in flight
	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)
	close(release)

	body, _, err := memo.Do(t.Context(), "items/19721", func(context.Context) ([]byte, error) {
		t.Error("fetched twice")
		return nil, errors.New("fetched twice")
	})

	// Assert: a live caller still gets the shared body
	require.NoError(t, err)
	require.JSONEq(t, `{"id":19721}`, string(body))
}

func TestRequestCacheDoesNotStoreFailures(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	gomock.InOrder(
		httpClient.EXPECT().Do(gomock.Any()).Return(nil, errors.New("reset by peer")),
		httpClient.EXPECT().Do(gomock.Any()).Return(jsonResponse(t, http.StatusOK, domain.Item{ID: 1}), nil),
	)

	memo := gw2.NewRequestCache(16, 0)
	client := newClient(httpClient, gw2.WithRequestCache(memo))

	_, err := client.Item(t.Context(), 1)
	require.Error(t, err)

	item, err := client.Item(t.Context(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, item.ID)
}

func TestPartialContentIsSuccess(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, []int{5, 1, 3}, queryIDs(t, req))
			return jsonResponse(t, http.StatusPartialContent, []domain.ItemPrice{{ID: 5}, {ID: 3}}), nil
		})

	client := newClient(httpClient)

	prices, err := client.Prices(t.Context(), []int{5, 1, 3})
	require.NoError(t, err)
	require.Len(t, prices, 2)
}
