package catalog_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmcdole/gw2catalog/internal/catalog"
	"github.com/mmcdole/gw2catalog/internal/domain"
	"github.com/mmcdole/gw2catalog/internal/gw2"
	"github.com/mmcdole/gw2catalog/internal/store"
)

// fakeAPI serves the subset of the game data API the catalog uses and
// counts requests by path plus query parameter names ("/items?ids").
type fakeAPI struct {
	mu      sync.Mutex
	items   map[int]domain.Item
	recipes map[int]domain.Recipe
	prices  map[int]domain.ItemPrice
	hits    map[string]int
	down    bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		items:   make(map[int]domain.Item),
		recipes: make(map[int]domain.Recipe),
		prices:  make(map[int]domain.ItemPrice),
		hits:    make(map[string]int),
	}
}

func (f *fakeAPI) addItems(items ...domain.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range items {
		f.items[item.ID] = item
	}
}

func (f *fakeAPI) addRecipes(recipes ...domain.Recipe) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range recipes {
		f.recipes[r.ID] = r
	}
}

func (f *fakeAPI) addPrices(prices ...domain.ItemPrice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range prices {
		f.prices[p.ID] = p
	}
}

func (f *fakeAPI) setDown(down bool) {
	f.mu.Lock()
	f.down = down
	f.mu.Unlock()
}

func (f *fakeAPI) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := slices.Sorted(maps.Keys(r.URL.Query()))
	f.hits[r.URL.Path+"?"+strings.Join(keys, "&")]++

	if f.down {
		http.Error(w, `{"text":"down"}`, http.StatusServiceUnavailable)
		return
	}

	path := r.URL.Path
	switch {
	case path == "/recipes/search":
		output, _ := strconv.Atoi(r.URL.Query().Get("output"))
		ids := []int{}
		for _, id := range slices.Sorted(maps.Keys(f.recipes)) {
			if f.recipes[id].OutputItemID == output {
				ids = append(ids, id)
			}
		}
		writeJSON(w, http.StatusOK, ids)
	case path == "/items" || strings.HasPrefix(path, "/items/"):
		serveCollection(w, r, "/items", f.items)
	case path == "/recipes" || strings.HasPrefix(path, "/recipes/"):
		serveCollection(w, r, "/recipes", f.recipes)
	case path == "/commerce/prices" || strings.HasPrefix(path, "/commerce/prices/"):
		serveCollection(w, r, "/commerce/prices", f.prices)
	default:
		http.NotFound(w, r)
	}
}

// serveCollection answers id lists, pages, ids= batches (206 when partly
// invalid) and single lookups
func serveCollection[T any](w http.ResponseWriter, r *http.Request, root string, records map[int]T) {
	if rest := strings.TrimPrefix(r.URL.Path, root+"/"); rest != r.URL.Path {
		id, _ := strconv.Atoi(rest)
		rec, ok := records[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"text": "no such id"})
			return
		}
		writeJSON(w, http.StatusOK, rec)
		return
	}

	if r.URL.Query().Has("page") {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
		ids := slices.Sorted(maps.Keys(records))
		start := min(page*size, len(ids))
		if start == len(ids) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"text": "page out of range"})
			return
		}
		out := []T{}
		for _, id := range ids[start:min(start+size, len(ids))] {
			out = append(out, records[id])
		}
		w.Header().Set("X-Result-Total", strconv.Itoa(len(ids)))
		writeJSON(w, http.StatusOK, out)
		return
	}

	raw := r.URL.Query().Get("ids")
	if raw == "" {
		writeJSON(w, http.StatusOK, slices.Sorted(maps.Keys(records)))
		return
	}

	found := []T{}
	requested := strings.Split(raw, ",")
	for _, s := range requested {
		id, _ := strconv.Atoi(s)
		if rec, ok := records[id]; ok {
			found = append(found, rec)
		}
	}
	switch {
	case len(found) == 0:
		writeJSON(w, http.StatusNotFound, map[string]string{"text": "all ids provided are invalid"})
	case len(found) < len(requested):
		writeJSON(w, http.StatusPartialContent, found)
	default:
		writeJSON(w, http.StatusOK, found)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testConfig keeps the defaults but removes the pauses
func testConfig() catalog.Config {
	cfg := catalog.DefaultConfig()
	cfg.ItemPreload.SuccessDelay = 0
	cfg.ItemPreload.FailureDelay = 0
	cfg.RecipePreload.SuccessDelay = 0
	cfg.RecipePreload.FailureDelay = 0
	cfg.Trim.Interval = 0
	return cfg
}

type harness struct {
	api     *fakeAPI
	client  *gw2.Client
	store   *store.CacheStore
	catalog *catalog.Catalog
}

func newHarness(t *testing.T, storeOpts []store.Option, opts ...catalog.Option) *harness {
	t.Helper()

	api := newFakeAPI()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	s, err := store.Open(filepath.Join(t.TempDir(), "gw2catalog.db"), storeOpts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	client := gw2.NewClient(
		gw2.WithBaseURL(srv.URL),
		gw2.WithHTTPClient(srv.Client()),
		gw2.WithLogger(discardLogger()),
	)

	opts = append([]catalog.Option{
		catalog.WithLogger(discardLogger()),
		catalog.WithConfig(testConfig()),
	}, opts...)
	c := catalog.New(client, s, opts...)
	t.Cleanup(c.Close)

	return &harness{api: api, client: client, store: s, catalog: c}
}

func itemIDs(items []domain.Item) []int {
	out := make([]int, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func numberedItems(from, to int) []domain.Item {
	out := make([]domain.Item, 0, to-from+1)
	for id := from; id <= to; id++ {
		out = append(out, domain.Item{ID: id, Name: "Item " + strconv.Itoa(id), Type: domain.ItemTypeTrinket, Rarity: domain.RarityFine})
	}
	return out
}
