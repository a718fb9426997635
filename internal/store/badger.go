// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/mediashelf/internal/config"
	"github.com/tomtom215/mediashelf/internal/logging"
	"github.com/tomtom215/mediashelf/internal/models"
)

// InMemoryPath opens the badger and sqlite backends without touching disk.
const InMemoryPath = ":memory:"

// Key layout:
//
//	rec/<kind>/<seq:8 bytes big endian>  -> record JSON
//	idx/<kind>/<id:8 bytes big endian>   -> seq
//	seq/<kind>                           -> badger sequence lease
//
// Sequences only grow, so iterating rec/<kind>/ yields insertion order.
const (
	recordPrefix   = "rec/"
	indexPrefix    = "idx/"
	sequencePrefix = "seq/"

	sequenceBandwidth = 64
)

type badgerStore struct {
	db   *badger.DB
	path string

	seqMu sync.Mutex
	seqs  map[models.Kind]*badger.Sequence
}

func openBadger(path string) (*badgerStore, error) {
	var opts badger.Options
	if path == InMemoryPath {
		opts = badger.DefaultOptions("").
			WithInMemory(true).
			WithMemTableSize(8 << 20).
			WithBlockCacheSize(8 << 20)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts.Logger = badgerLogger{log: logging.WithComponent("badger")}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &badgerStore{db: db, path: path, seqs: make(map[models.Kind]*badger.Sequence)}, nil
}

func (b *badgerStore) name() string { return config.BackendBadger }

func recordKey(kind models.Kind, seq uint64) []byte {
	return binary.BigEndian.AppendUint64([]byte(recordPrefix+string(kind)+"/"), seq)
}

func recordPrefixFor(kind models.Kind) []byte {
	return []byte(recordPrefix + string(kind) + "/")
}

func indexKey(kind models.Kind, id int64) []byte {
	return binary.BigEndian.AppendUint64([]byte(indexPrefix+string(kind)+"/"), uint64(id)) //nolint:gosec // ids are positive
}

func (b *badgerStore) sequence(kind models.Kind) (*badger.Sequence, error) {
	b.seqMu.Lock()
	defer b.seqMu.Unlock()

	if seq, ok := b.seqs[kind]; ok {
		return seq, nil
	}
	seq, err := b.db.GetSequence([]byte(sequencePrefix+string(kind)), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("lease %s sequence: %w", kind, err)
	}
	b.seqs[kind] = seq
	return seq, nil
}

// lookup resolves the record key of id inside txn.
func lookup(txn *badger.Txn, kind models.Kind, id int64) ([]byte, error) {
	item, err := txn.Get(indexKey(kind, id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s index: %w", kind, err)
	}
	seq, err := item.ValueCopy(nil)
	if err != nil {
		return nil, fmt.Errorf("read %s index: %w", kind, err)
	}
	return recordKey(kind, binary.BigEndian.Uint64(seq)), nil
}

func (b *badgerStore) list(ctx context.Context, kind models.Kind, offset, limit int) ([]json.RawMessage, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	var (
		out   []json.RawMessage
		total int
	)
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = recordPrefixFor(kind)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if total >= offset && (limit < 0 || total-offset < limit) {
				val, err := it.Item().ValueCopy(nil)
				if err != nil {
					return fmt.Errorf("read %s record: %w", kind, err)
				}
				out = append(out, val)
			}
			total++
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (b *badgerStore) get(ctx context.Context, kind models.Kind, id int64) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out json.RawMessage
	err := b.db.View(func(txn *badger.Txn) error {
		key, err := lookup(txn, kind, id)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return fmt.Errorf("get %s record: %w", kind, err)
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	return out, err
}

func (b *badgerStore) insert(ctx context.Context, kind models.Kind, id int64, body json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	seq, err := b.sequence(kind)
	if err != nil {
		return err
	}
	// Drawn outside the transaction; a lease renewal runs its own. A number
	// lost to a duplicate id only leaves a gap.
	n, err := seq.Next()
	if err != nil {
		return fmt.Errorf("next %s sequence: %w", kind, err)
	}

	return b.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(indexKey(kind, id))
		if err == nil {
			return ErrDuplicateID
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check %s index: %w", kind, err)
		}

		if err := txn.Set(recordKey(kind, n), body); err != nil {
			return fmt.Errorf("set %s record: %w", kind, err)
		}
		if err := txn.Set(indexKey(kind, id), binary.BigEndian.AppendUint64(nil, n)); err != nil {
			return fmt.Errorf("set %s index: %w", kind, err)
		}
		return nil
	})
}

func (b *badgerStore) update(ctx context.Context, kind models.Kind, id int64, fn func(json.RawMessage) (json.RawMessage, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		key, err := lookup(txn, kind, id)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return fmt.Errorf("get %s record: %w", kind, err)
		}
		current, err := item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("read %s record: %w", kind, err)
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		return txn.Set(key, next)
	})
}

func (b *badgerStore) remove(ctx context.Context, kind models.Kind, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		key, err := lookup(txn, kind, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("delete %s record: %w", kind, err)
		}
		return txn.Delete(indexKey(kind, id))
	})
}

func (b *badgerStore) count(ctx context.Context, kind models.Kind) (int, error) {
	_, total, err := b.list(ctx, kind, 0, 0)
	return total, err
}

func (b *badgerStore) inspect(ctx context.Context) (models.StoreInspection, error) {
	if err := ctx.Err(); err != nil {
		return models.StoreInspection{}, err
	}
	lsm, vlog := b.db.Size()
	info := models.StoreInspection{
		Backend:   b.name(),
		Path:      b.path,
		SizeBytes: lsm + vlog,
	}
	if b.path != InMemoryPath {
		_, err := os.Stat(b.path)
		info.Exists = err == nil
	}
	return info, nil
}

func (b *badgerStore) ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.db.IsClosed() {
		return errors.New("badger store is closed")
	}
	return nil
}

func (b *badgerStore) close() error {
	b.seqMu.Lock()
	for kind, seq := range b.seqs {
		if err := seq.Release(); err != nil {
			logging.Warn().Err(err).Str("kind", string(kind)).Msg("Failed to release badger sequence")
		}
	}
	b.seqs = map[models.Kind]*badger.Sequence{}
	b.seqMu.Unlock()

	return b.db.Close()
}

// badgerLogger routes badger's internal logging through zerolog. Info output
// is demoted to debug; badger is chatty on open and compaction.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Msgf(format, args...)
}
