// Package journal keeps a local record of broadcast sends in a bbolt file.
package journal

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/bitfsorg/libbchsend-go/tx"
)

var (
	bucketSends     = []byte("sends")
	bucketSendsTime = []byte("sends_time")
)

// Recipient is one paid output of a send.
type Recipient struct {
	Address string
	Amount  uint64 // satoshis
}

// Entry records one broadcast transaction.
type Entry struct {
	TxID       string // display order hex
	Network    string
	Link       string
	RawHex     string
	From       string
	Input      string // spent outpoint, txid:vout
	Recipients []Recipient
	Fee        uint64
	Change     uint64
	CreatedAt  time.Time
}

// Store wraps a bbolt database of send entries.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the journal at dbPath. The parent directory is
// created if it does not exist.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("journal: open bolt db: %w", err)
	}

	err = db.Update(func(btx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketSends, bucketSendsTime} {
			if _, err := btx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("journal: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// timeKey orders entries by creation time; the txid suffix keeps keys unique.
func timeKey(t time.Time, txid []byte) []byte {
	k := make([]byte, 8+len(txid))
	binary.BigEndian.PutUint64(k, uint64(t.UnixNano()))
	copy(k[8:], txid)
	return k
}

// Put stores e. Returns ErrDuplicate if its txid is already recorded.
func (s *Store) Put(e *Entry) error {
	if e == nil {
		return fmt.Errorf("%w: entry", ErrNilParam)
	}
	key, err := tx.ParseTxID(e.TxID)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	return s.db.Update(func(btx *bbolt.Tx) error {
		b := btx.Bucket(bucketSends)
		if b.Get(key) != nil {
			return fmt.Errorf("%w: %s", ErrDuplicate, e.TxID)
		}
		data, err := encodeGob(e)
		if err != nil {
			return fmt.Errorf("journal: encode entry: %w", err)
		}
		if err := b.Put(key, data); err != nil {
			return fmt.Errorf("journal: put entry: %w", err)
		}
		if err := btx.Bucket(bucketSendsTime).Put(timeKey(e.CreatedAt, key), key); err != nil {
			return fmt.Errorf("journal: put time index: %w", err)
		}
		return nil
	})
}

// Get returns the entry for a display-order txid.
func (s *Store) Get(txid string) (*Entry, error) {
	key, err := tx.ParseTxID(txid)
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}

	var e Entry
	err = s.db.View(func(btx *bbolt.Tx) error {
		data := btx.Bucket(bucketSends).Get(key)
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, txid)
		}
		return decodeGob(data, &e)
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Store) List(limit int) ([]*Entry, error) {
	var entries []*Entry
	err := s.db.View(func(btx *bbolt.Tx) error {
		sends := btx.Bucket(bucketSends)
		c := btx.Bucket(bucketSendsTime).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			data := sends.Get(v)
			if data == nil {
				continue
			}
			var e Entry
			if err := decodeGob(data, &e); err != nil {
				return fmt.Errorf("journal: decode entry: %w", err)
			}
			entries = append(entries, &e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.View(func(btx *bbolt.Tx) error {
		n = btx.Bucket(bucketSends).Stats().KeyN
		return nil
	})
	return n, err
}

func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
