// Package shadow persists the read-optimized copy of request and memo
// records as JSON documents keyed by normalized entity id. The spreadsheet
// service stays authoritative; this store only carries generated-artifact
// URLs and the latest workflow status between bulk reconciliations.
package shadow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sarabun-oss/sarabun/internal/platform/db"
)

// MaxBatchSize is the per-commit ceiling for batched writes.
const MaxBatchSize = 400

// ErrDocumentNotFound indicates a missing shadow document.
var ErrDocumentNotFound = errors.New("shadow: document not found")

// Document pairs a normalized key with its JSON payload.
type Document struct {
	Key       string
	Doc       map[string]any
	UpdatedAt time.Time
}

// NormalizeKey replaces path-separator characters in an entity id so it can
// serve as a document key: "005/2569" becomes "005-2569".
func NormalizeKey(id string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", ".", "-")
	return replacer.Replace(strings.TrimSpace(id))
}

// Store is the Postgres-backed document store.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store instance.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Get loads a single document by key.
func (s *Store) Get(ctx context.Context, key string) (Document, error) {
	if s == nil || s.pool == nil {
		return Document{}, fmt.Errorf("shadow: store not initialised")
	}
	const query = `SELECT key, doc, updated_at FROM shadow_documents WHERE key = $1`
	var (
		raw       []byte
		doc       Document
		updatedAt time.Time
	)
	if err := s.pool.QueryRow(ctx, query, key).Scan(&doc.Key, &raw, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, ErrDocumentNotFound
		}
		return Document{}, err
	}
	doc.UpdatedAt = updatedAt
	if err := json.Unmarshal(raw, &doc.Doc); err != nil {
		return Document{}, fmt.Errorf("shadow: decode %s: %w", key, err)
	}
	return doc, nil
}

// GetAll returns the full snapshot keyed by document key.
func (s *Store) GetAll(ctx context.Context) (map[string]Document, error) {
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("shadow: store not initialised")
	}
	const query = `SELECT key, doc, updated_at FROM shadow_documents`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	snapshot := make(map[string]Document)
	for rows.Next() {
		var (
			doc Document
			raw []byte
		)
		if err := rows.Scan(&doc.Key, &raw, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &doc.Doc); err != nil {
			return nil, fmt.Errorf("shadow: decode %s: %w", doc.Key, err)
		}
		snapshot[doc.Key] = doc
	}
	return snapshot, rows.Err()
}

// Keys lists every stored document key.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("shadow: store not initialised")
	}
	rows, err := s.pool.Query(ctx, `SELECT key FROM shadow_documents ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// SetMerge overlays only the supplied fields onto an existing document,
// creating it when absent. This is the partial-field merge used by mirror
// writes.
func (s *Store) SetMerge(ctx context.Context, key string, fields map[string]any) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("shadow: store not initialised")
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("shadow: encode %s: %w", key, err)
	}
	const query = `INSERT INTO shadow_documents (key, doc, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET doc = shadow_documents.doc || EXCLUDED.doc, updated_at = now()`
	_, err = s.pool.Exec(ctx, query, key, raw)
	return err
}

// Put replaces the whole document.
func (s *Store) Put(ctx context.Context, key string, doc map[string]any) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("shadow: store not initialised")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("shadow: encode %s: %w", key, err)
	}
	const query = `INSERT INTO shadow_documents (key, doc, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`
	_, err = s.pool.Exec(ctx, query, key, raw)
	return err
}

// Delete removes a document. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("shadow: store not initialised")
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM shadow_documents WHERE key = $1`, key)
	return err
}

// BatchPut replaces documents in fixed-size batches, respecting the
// per-commit operation ceiling. Each chunk commits in its own transaction:
// a failure mid-run leaves earlier chunks committed and the current chunk
// rolled back whole; the caller re-runs the reconciliation to recover.
func (s *Store) BatchPut(ctx context.Context, docs []Document) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("shadow: store not initialised")
	}
	const query = `INSERT INTO shadow_documents (key, doc, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`
	for start := 0; start < len(docs); start += MaxBatchSize {
		end := start + MaxBatchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := &pgx.Batch{}
		for _, doc := range docs[start:end] {
			raw, err := json.Marshal(doc.Doc)
			if err != nil {
				return fmt.Errorf("shadow: encode %s: %w", doc.Key, err)
			}
			batch.Queue(query, doc.Key, raw)
		}
		err := db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
			return tx.SendBatch(ctx, batch).Close()
		})
		if err != nil {
			return fmt.Errorf("shadow: batch put: %w", err)
		}
	}
	return nil
}

// DeleteMany removes the given keys in batches, one transaction per chunk.
func (s *Store) DeleteMany(ctx context.Context, keys []string) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("shadow: store not initialised")
	}
	for start := 0; start < len(keys); start += MaxBatchSize {
		end := start + MaxBatchSize
		if end > len(keys) {
			end = len(keys)
		}
		batch := &pgx.Batch{}
		for _, key := range keys[start:end] {
			batch.Queue(`DELETE FROM shadow_documents WHERE key = $1`, key)
		}
		err := db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
			return tx.SendBatch(ctx, batch).Close()
		})
		if err != nil {
			return fmt.Errorf("shadow: batch delete: %w", err)
		}
	}
	return nil
}
