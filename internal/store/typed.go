package store

import (
	"encoding/json"
	"fmt"

	"github.com/mmcdole/gw2catalog/internal/domain"
)

// PutRecords marshals recs and writes them in one transaction.
func PutRecords[T domain.Keyed](s domain.Store, c domain.Collection, recs []T) error {
	if len(recs) == 0 {
		return nil
	}
	raw := make([]domain.Record, 0, len(recs))
	for _, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode %s %d: %w", c, rec.Key(), err)
		}
		raw = append(raw, domain.Record{ID: rec.Key(), Data: data})
	}
	return s.PutMany(c, raw)
}

// GetRecord reads one record. Undecodable values count as absent.
func GetRecord[T any](s domain.Store, c domain.Collection, id int) (T, bool, error) {
	var rec T
	data, ok, err := s.Get(c, id)
	if err != nil || !ok {
		return rec, false, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		var zero T
		return zero, false, nil
	}
	return rec, true, nil
}

// GetRecords reads the stored records among ids, omitting misses.
func GetRecords[T any](s domain.Store, c domain.Collection, ids []int) ([]T, error) {
	raw, err := s.GetMany(c, ids)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](raw), nil
}

// AllRecords reads every record of c in ID order.
func AllRecords[T any](s domain.Store, c domain.Collection) ([]T, error) {
	raw, err := s.GetAll(c)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](raw), nil
}

func decodeAll[T any](raw []domain.Record) []T {
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		var rec T
		if json.Unmarshal(r.Data, &rec) == nil {
			out = append(out, rec)
		}
	}
	return out
}
