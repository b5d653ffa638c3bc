// Package queue is the local durable store for submissions that could not
// be committed to the backend. Entries survive process restarts and are
// drained opportunistically by the retry driver.
//
// The store is single-owner: badger's directory lock keeps a second process
// out, and callers in the same process are serialized through the embedded
// transactions. There is no cross-host coordination.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"

	"github.com/mhoang/assessforms/internal/schema"
)

const (
	pendingPrefix = "pending/"
	draftPrefix   = "draft/"
	seqKey        = "pending-seq"

	// DefaultMaxEntries bounds queue growth. Beyond it, Enqueue drops the
	// oldest entry and logs the drop.
	DefaultMaxEntries = 1000
)

// PendingSubmission is one queued commit payload. QueuedAt is bookkeeping
// only and is stripped before the payload is resubmitted.
type PendingSubmission struct {
	FormID   string         `json:"form_id"`
	Record   map[string]any `json:"record"`
	QueuedAt time.Time      `json:"queued_at"`
}

// Queue is the badger-backed pending-submission store. Construct with Open
// or OpenInMemory and Close when done.
type Queue struct {
	db         *badger.DB
	seq        *badger.Sequence
	maxEntries int
}

// Open opens (or creates) a persistent queue in dir.
func Open(dir string, maxEntries int) (*Queue, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	return open(opts, maxEntries)
}

// OpenInMemory opens a queue that lives only for the process. Used in tests
// and when no queue directory is configured.
func OpenInMemory(maxEntries int) (*Queue, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	return open(opts, maxEntries)
}

func open(opts badger.Options, maxEntries int) (*Queue, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open submission queue: %w", err)
	}
	seq, err := db.GetSequence([]byte(seqKey), 64)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open submission queue sequence: %w", err)
	}
	return &Queue{db: db, seq: seq, maxEntries: maxEntries}, nil
}

// Close releases the sequence and the underlying store.
func (q *Queue) Close() error {
	if err := q.seq.Release(); err != nil {
		log.Warn().Err(err).Msg("Failed to release queue sequence")
	}
	return q.db.Close()
}

// Enqueue appends a pending submission stamped with the current time.
func (q *Queue) Enqueue(formID string, record map[string]any) error {
	n, err := q.seq.Next()
	if err != nil {
		return fmt.Errorf("next queue sequence: %w", err)
	}
	entry := PendingSubmission{FormID: formID, Record: record, QueuedAt: time.Now().UTC()}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode pending submission: %w", err)
	}
	err = q.db.Update(func(txn *badger.Txn) error {
		return txn.Set(pendingKey(n), data)
	})
	if err != nil {
		return fmt.Errorf("store pending submission: %w", err)
	}
	return q.enforceBound()
}

// ListAll returns every pending submission in enqueue order.
func (q *Queue) ListAll() ([]PendingSubmission, error) {
	var entries []PendingSubmission
	err := q.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(pendingPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var entry PendingSubmission
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				return fmt.Errorf("decode pending submission: %w", err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	return entries, err
}

// RemoveAt deletes the i-th pending submission in enqueue order.
func (q *Queue) RemoveAt(i int) error {
	keys, err := q.pendingKeys()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(keys) {
		return fmt.Errorf("queue index %d out of range (%d entries)", i, len(keys))
	}
	return q.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(keys[i])
	})
}

// ClearAll drops every pending submission.
func (q *Queue) ClearAll() error {
	keys, err := q.pendingKeys()
	if err != nil {
		return err
	}
	return q.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// Len returns the number of pending submissions.
func (q *Queue) Len() (int, error) {
	keys, err := q.pendingKeys()
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// SaveDraft stores the in-progress answers for a form, for crash recovery
// of a half-filled questionnaire.
func (q *Queue) SaveDraft(formID string, answers schema.AnswerMap) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("encode draft answers: %w", err)
	}
	return q.db.Update(func(txn *badger.Txn) error {
		return txn.Set(draftKey(formID), data)
	})
}

// LoadDraft returns the saved draft for a form, if any.
func (q *Queue) LoadDraft(formID string) (schema.AnswerMap, bool, error) {
	var answers schema.AnswerMap
	found := false
	err := q.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(draftKey(formID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &answers)
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("load draft answers: %w", err)
	}
	return answers, found, nil
}

// ClearDraft removes the saved draft for a form.
func (q *Queue) ClearDraft(formID string) error {
	return q.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(draftKey(formID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}

// enforceBound drops oldest entries until the queue fits maxEntries.
func (q *Queue) enforceBound() error {
	keys, err := q.pendingKeys()
	if err != nil {
		return err
	}
	if len(keys) <= q.maxEntries {
		return nil
	}
	excess := keys[:len(keys)-q.maxEntries]
	err = q.db.Update(func(txn *badger.Txn) error {
		for _, key := range excess {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("enforce queue bound: %w", err)
	}
	log.Warn().Int("dropped", len(excess)).Int("max", q.maxEntries).
		Msg("Submission queue exceeded its bound, oldest entries dropped")
	return nil
}

func (q *Queue) pendingKeys() ([][]byte, error) {
	var keys [][]byte
	err := q.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := []byte(pendingPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

func pendingKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", pendingPrefix, seq))
}

func draftKey(formID string) []byte {
	return []byte(draftPrefix + formID)
}
