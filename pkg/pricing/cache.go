package pricing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket and key names for the price-sheet cache.
var (
	bucketPricing = []byte("pricing")
	keyLiteLLM    = []byte("litellm")
)

// cachedSheet is the stored form of a fetched remote price sheet.
type cachedSheet struct {
	FetchedAt time.Time               `json:"fetchedAt"`
	Models    map[string]ModelPricing `json:"models"`
}

// diskCache persists fetched remote pricing in a BoltDB file so that
// repeated invocations within the TTL avoid the network round trip.
// It caches reference data only; usage reports are always recomputed
// from raw logs.
type diskCache struct {
	db *bolt.DB
}

// openDiskCache opens (creating if needed) the cache file at path.
func openDiskCache(path string) (*diskCache, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open pricing cache %s: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(bucketPricing)
		return createErr
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create pricing bucket: %w", err)
	}

	return &diskCache{db: db}, nil
}

// load returns the cached sheet if it exists and is younger than ttl.
func (c *diskCache) load(ttl time.Duration) (map[string]ModelPricing, bool) {
	var sheet cachedSheet
	found := false

	err := c.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketPricing).Get(keyLiteLLM)
		if data == nil {
			return nil
		}
		if unmarshalErr := json.Unmarshal(data, &sheet); unmarshalErr != nil {
			// A corrupt cache entry is treated as a miss.
			return nil
		}
		found = true
		return nil
	})
	if err != nil || !found {
		return nil, false
	}

	if time.Since(sheet.FetchedAt) > ttl {
		return nil, false
	}

	return sheet.Models, true
}

// store writes a freshly fetched sheet. Failures are ignored; the
// cache is an optimization, not a source of truth.
func (c *diskCache) store(models map[string]ModelPricing) {
	data, err := json.Marshal(cachedSheet{
		FetchedAt: time.Now(),
		Models:    models,
	})
	if err != nil {
		return
	}

	_ = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPricing).Put(keyLiteLLM, data)
	})
}

// Close releases the underlying database.
func (c *diskCache) Close() error {
	return c.db.Close()
}
