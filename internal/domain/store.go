package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Collection names one persistent record set
type Collection string

const (
	CollectionItems   Collection = "items"
	CollectionRecipes Collection = "recipes"
	CollectionPrices  Collection = "prices"
)

// Collections lists the record collections in clearing order.
var Collections = []Collection{CollectionItems, CollectionRecipes, CollectionPrices}

// ParseCollection validates a collection name
func ParseCollection(name string) (Collection, error) {
	c := Collection(name)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return c, nil
}

func (c Collection) Valid() bool {
	switch c {
	case CollectionItems, CollectionRecipes, CollectionPrices:
		return true
	}
	return false
}

// MetadataKey is the label of the collection's metadata record.
func (c Collection) MetadataKey() string {
	return string(c) + "_last_updated"
}

// CacheMetadata tracks the last write into a collection.
// Count is the collection size before the write plus the records written.
type CacheMetadata struct {
	Value time.Time `json:"value"`
	Count int       `json:"count"`
}

// Record is a stored value with its primary key
type Record struct {
	ID   int
	Data json.RawMessage
}

// CacheStats summarises the persistent cache
type CacheStats struct {
	Items       int
	Recipes     int
	Prices      int
	LastUpdated map[Collection]time.Time // missing key = never written
}

// Store is the persistent cache.
// Every failure to open or run a transaction wraps ErrStoreUnavailable.
type Store interface {
	// === Records ===
	Put(c Collection, rec Record) error
	PutMany(c Collection, recs []Record) error
	Get(c Collection, id int) (json.RawMessage, bool, error)
	GetMany(c Collection, ids []int) ([]Record, error)
	GetAll(c Collection) ([]Record, error)
	IDs(c Collection) ([]int, error)
	Count(c Collection) (int, error)

	// === Metadata ===
	Metadata(c Collection) (CacheMetadata, bool, error)

	// === Eviction ===
	Clear(c Collection) error
	ClearAll() error
	Trim(c Collection, max int) (int, error)

	// === Favorites ===
	AddFavorite(id int) error
	RemoveFavorite(id int) error
	IsFavorite(id int) (bool, error)
	Favorites() ([]int, error)
	ClearFavorites() error

	Close() error
}
