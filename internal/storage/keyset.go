package storage

import (
	"fmt"
	"strconv"

	"github.com/zeebo/xxh3"
)

// KeySet is a set of canonical key strings bucketed by xxh3 hash. Buckets
// hold the full strings so hash collisions never produce false positives.
type KeySet struct {
	buckets map[uint64][]string
	n       int
}

// NewKeySet returns a set sized for roughly n keys.
func NewKeySet(n int) *KeySet {
	return &KeySet{buckets: make(map[uint64][]string, n)}
}

// Add inserts k and reports whether it was new.
func (s *KeySet) Add(k string) bool {
	h := xxh3.HashString(k)
	for _, have := range s.buckets[h] {
		if have == k {
			return false
		}
	}
	s.buckets[h] = append(s.buckets[h], k)
	s.n++
	return true
}

// Has reports whether k is in the set.
func (s *KeySet) Has(k string) bool {
	for _, have := range s.buckets[xxh3.HashString(k)] {
		if have == k {
			return true
		}
	}
	return false
}

// Len is the number of distinct keys.
func (s *KeySet) Len() int { return s.n }

// KeyString renders a key value in the canonical form shared by the Loader
// and every backend's ExistingKeys, so that int64(7) from a driver and the
// int64(7) in a row compare equal, as do string and []byte ids.
func KeyString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// Chunks calls fn for consecutive [lo, hi) windows of at most size over n
// items, stopping at the first error.
func Chunks(n, size int, fn func(lo, hi int) error) error {
	if size <= 0 {
		size = n
	}
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		if err := fn(lo, hi); err != nil {
			return err
		}
	}
	return nil
}
