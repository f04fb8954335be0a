package store

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/mmcdole/gw2catalog/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketMetadata  = []byte("metadata")
	bucketFavorites = []byte("favorites")
)

// dbFileName is the bolt file created under the per-API cache directory
const dbFileName = "gw2catalog.db"

// envelope is the stored form of a record. Seq is the record's key in the
// collection's insertion order bucket.
type envelope struct {
	Seq  uint64          `json:"seq"`
	Data json.RawMessage `json:"data"`
}

// CacheStore implements domain.Store using BoltDB.
//
// Each collection has a data bucket keyed by big-endian ID and an order
// bucket keyed by write sequence, so eviction can walk oldest-first.
type CacheStore struct {
	db  *bolt.DB
	now func() time.Time
}

// Option configures a CacheStore
type Option func(*CacheStore)

// WithClock sets the time source used for metadata timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *CacheStore) {
		s.now = now
	}
}

// NewCacheStore opens the store for baseURL under baseCacheDir. Each API base
// URL gets its own directory.
func NewCacheStore(baseCacheDir, baseURL string, opts ...Option) (*CacheStore, error) {
	dir := baseCacheDir
	if baseURL != "" {
		dir = filepath.Join(baseCacheDir, hashBaseURL(baseURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, unavailable("create cache dir", err)
	}
	return Open(filepath.Join(dir, dbFileName), opts...)
}

// Open opens (or creates) the bolt file at path.
func Open(path string, opts ...Option) (*CacheStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, unavailable("open bolt db", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets() {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, unavailable("create buckets", err)
	}

	s := &CacheStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func allBuckets() [][]byte {
	buckets := [][]byte{bucketMetadata, bucketFavorites}
	for _, c := range domain.Collections {
		buckets = append(buckets, dataBucket(c), orderBucket(c))
	}
	return buckets
}

func hashBaseURL(baseURL string) string {
	normalized := strings.TrimRight(strings.ToLower(baseURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *CacheStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the bolt file location
func (s *CacheStore) Path() string {
	return s.db.Path()
}

// === Generic helpers ===

func dataBucket(c domain.Collection) []byte  { return []byte(c) }
func orderBucket(c domain.Collection) []byte { return []byte(string(c) + "_order") }

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func idKey(id int) []byte { return itob(uint64(id)) }

func keyID(k []byte) int { return int(binary.BigEndian.Uint64(k)) }

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, op, err)
}

func checkCollection(c domain.Collection) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCollection, c)
	}
	return nil
}

func decode(v []byte) (json.RawMessage, bool) {
	var env envelope
	if err := json.Unmarshal(v, &env); err != nil {
		return nil, false
	}
	return env.Data, true
}

// === Records ===

func (s *CacheStore) Put(c domain.Collection, rec domain.Record) error {
	return s.PutMany(c, []domain.Record{rec})
}

// PutMany upserts recs and rewrites the collection metadata in the same
// transaction. Rewritten records move to the tail of the eviction order.
func (s *CacheStore) PutMany(c domain.Collection, recs []domain.Record) error {
	if err := checkCollection(c); err != nil {
		return err
	}
	if len(recs) == 0 {
		return nil
	}

	now := s.now()
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(dataBucket(c))
		order := tx.Bucket(orderBucket(c))
		prev := b.Stats().KeyN

		for _, rec := range recs {
			key := idKey(rec.ID)
			if old := b.Get(key); old != nil {
				var env envelope
				if json.Unmarshal(old, &env) == nil {
					if err := order.Delete(itob(env.Seq)); err != nil {
						return err
					}
				}
			}

			seq, err := order.NextSequence()
			if err != nil {
				return err
			}
			data, err := json.Marshal(envelope{Seq: seq, Data: rec.Data})
			if err != nil {
				return err
			}
			if err := b.Put(key, data); err != nil {
				return err
			}
			if err := order.Put(itob(seq), key); err != nil {
				return err
			}
		}

		meta, err := json.Marshal(domain.CacheMetadata{Value: now, Count: prev + len(recs)})
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMetadata).Put([]byte(c.MetadataKey()), meta)
	})
	if err != nil {
		return unavailable("put "+string(c), err)
	}
	return nil
}

func (s *CacheStore) Get(c domain.Collection, id int) (json.RawMessage, bool, error) {
	if err := checkCollection(c); err != nil {
		return nil, false, err
	}

	var data json.RawMessage
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(dataBucket(c)).Get(idKey(id)); v != nil {
			data, found = decode(v)
		}
		return nil
	})
	if err != nil {
		return nil, false, unavailable("get "+string(c), err)
	}
	return data, found, nil
}

// GetMany returns the stored records among ids. Misses are omitted.
func (s *CacheStore) GetMany(c domain.Collection, ids []int) ([]domain.Record, error) {
	if err := checkCollection(c); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	recs := make([]domain.Record, 0, len(ids))
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(dataBucket(c))
		for _, id := range ids {
			v := b.Get(idKey(id))
			if v == nil {
				continue
			}
			if data, ok := decode(v); ok {
				recs = append(recs, domain.Record{ID: id, Data: data})
			}
		}
		return nil
	})
	if err != nil {
		return nil, unavailable("get "+string(c), err)
	}
	return recs, nil
}

func (s *CacheStore) GetAll(c domain.Collection) ([]domain.Record, error) {
	if err := checkCollection(c); err != nil {
		return nil, err
	}

	var recs []domain.Record
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(dataBucket(c)).ForEach(func(k, v []byte) error {
			if data, ok := decode(v); ok {
				recs = append(recs, domain.Record{ID: keyID(k), Data: data})
			}
			return nil
		})
	})
	if err != nil {
		return nil, unavailable("scan "+string(c), err)
	}
	return recs, nil
}

// IDs returns the stored IDs in ascending order
func (s *CacheStore) IDs(c domain.Collection) ([]int, error) {
	if err := checkCollection(c); err != nil {
		return nil, err
	}

	var ids []int
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(dataBucket(c)).ForEach(func(k, _ []byte) error {
			ids = append(ids, keyID(k))
			return nil
		})
	})
	if err != nil {
		return nil, unavailable("scan "+string(c), err)
	}
	return ids, nil
}

func (s *CacheStore) Count(c domain.Collection) (int, error) {
	if err := checkCollection(c); err != nil {
		return 0, err
	}

	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(dataBucket(c)).Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, unavailable("count "+string(c), err)
	}
	return n, nil
}

// === Metadata ===

func (s *CacheStore) Metadata(c domain.Collection) (domain.CacheMetadata, bool, error) {
	if err := checkCollection(c); err != nil {
		return domain.CacheMetadata{}, false, err
	}

	var meta domain.CacheMetadata
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketMetadata).Get([]byte(c.MetadataKey()))
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &meta); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return domain.CacheMetadata{}, false, unavailable("read metadata", err)
	}
	return meta, found, nil
}

// === Eviction ===

// Clear drops every record of c along with its metadata.
func (s *CacheStore) Clear(c domain.Collection) error {
	if err := checkCollection(c); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{dataBucket(c), orderBucket(c)} {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return tx.Bucket(bucketMetadata).Delete([]byte(c.MetadataKey()))
	})
	if err != nil {
		return unavailable("clear "+string(c), err)
	}
	return nil
}

// ClearAll clears each collection in its own transaction. A failure in one
// collection does not stop the others.
func (s *CacheStore) ClearAll() error {
	var errs []error
	for _, c := range domain.Collections {
		if err := s.Clear(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Trim evicts the oldest written records of c until at most max remain.
func (s *CacheStore) Trim(c domain.Collection, max int) (int, error) {
	if err := checkCollection(c); err != nil {
		return 0, err
	}
	if max < 0 {
		max = 0
	}

	var removed int
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(dataBucket(c))
		order := tx.Bucket(orderBucket(c))

		excess := b.Stats().KeyN - max
		if excess <= 0 {
			return nil
		}

		// Collect first; deleting under a live cursor skips entries
		var seqs, keys [][]byte
		cur := order.Cursor()
		for k, v := cur.First(); k != nil && len(keys) < excess; k, v = cur.Next() {
			seqs = append(seqs, slices.Clone(k))
			if b.Get(v) != nil {
				keys = append(keys, slices.Clone(v))
			}
		}

		for _, k := range seqs {
			if err := order.Delete(k); err != nil {
				return err
			}
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(keys)
		return nil
	})
	if err != nil {
		return 0, unavailable("trim "+string(c), err)
	}
	return removed, nil
}

// === Favorites ===

func (s *CacheStore) AddFavorite(id int) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketFavorites)
		if b.Get(idKey(id)) != nil {
			return nil
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(idKey(id), itob(seq))
	})
	if err != nil {
		return unavailable("add favorite", err)
	}
	return nil
}

func (s *CacheStore) RemoveFavorite(id int) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFavorites).Delete(idKey(id))
	})
	if err != nil {
		return unavailable("remove favorite", err)
	}
	return nil
}

func (s *CacheStore) IsFavorite(id int) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(bucketFavorites).Get(idKey(id)) != nil
		return nil
	})
	if err != nil {
		return false, unavailable("read favorites", err)
	}
	return found, nil
}

// Favorites returns favorite item IDs in the order they were added
func (s *CacheStore) Favorites() ([]int, error) {
	type entry struct {
		id  int
		seq uint64
	}
	var entries []entry
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFavorites).ForEach(func(k, v []byte) error {
			entries = append(entries, entry{id: keyID(k), seq: binary.BigEndian.Uint64(v)})
			return nil
		})
	})
	if err != nil {
		return nil, unavailable("read favorites", err)
	}

	slices.SortFunc(entries, func(a, b entry) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	ids := make([]int, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids, nil
}

func (s *CacheStore) ClearFavorites() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketFavorites); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bucketFavorites)
		return err
	})
	if err != nil {
		return unavailable("clear favorites", err)
	}
	return nil
}
