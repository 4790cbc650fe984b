package bolt

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
)

const (
	ControllerBucket = "ControllerBucket"
	GenerationBucket = "GenerationBucket"
	PhenomeBucket    = "PhenomeBucket"
)

var (
	buckets          = []string{ControllerBucket, GenerationBucket, PhenomeBucket}
	ErrUnknownBucket = errors.New("unknown bucket")
	ErrNotFound      = errors.New("key not found")
)

// New opens (or creates) the database at path with every bucket in place.
func New(path string) (*Client, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Client{db}, nil
}

// Client stores gob-encoded values.
type Client struct {
	db *bolt.DB
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) Update(bucket string, key []byte, v interface{}) error {
	if err := c.checkBucket(bucket); err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := gob.NewEncoder(buf).Encode(v); err != nil {
		return fmt.Errorf("encoding %s/%x: %w", bucket, key, err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).Put(key, buf.Bytes())
	})
}

func (c *Client) Get(bucket string, key []byte, v interface{}) error {
	if err := c.checkBucket(bucket); err != nil {
		return err
	}

	return c.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucket)).Get(key)
		if data == nil {
			return ErrNotFound
		}
		return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
	})
}

// ForEach calls fn with every raw value of the bucket, in key order.
func (c *Client) ForEach(bucket string, fn func(key, value []byte) error) error {
	if err := c.checkBucket(bucket); err != nil {
		return err
	}

	return c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).ForEach(fn)
	})
}

func (c *Client) checkBucket(name string) error {
	for _, b := range buckets {
		if b == name {
			return nil
		}
	}
	return ErrUnknownBucket
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func btoi(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
