package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals that no record exists for the requested id. Absent is
// an expected outcome; callers branch with errors.Is rather than treating it
// as a failure.
var ErrNotFound = errors.New("record: not found")

// Store persists schemaless documents tagged by collection name.
type Store interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Insert(ctx context.Context, collection string, doc Document) (Document, error)
	Update(ctx context.Context, collection, id string, partial Document) (Document, error)
	Delete(ctx context.Context, collection, id string) error
	FindUserByEmail(ctx context.Context, email string) (Document, error)
}

// PGStore implements Store on a single PostgreSQL table with a collection
// discriminator column and a JSONB document column. Listing is always
// collection-scoped and volumes are small, so full-collection scans are the
// only read pattern besides point lookup and the email expression index.
type PGStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPGStore creates a PostgreSQL-backed record store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool, now: time.Now}
}

// List returns every document in the collection, newest created_date first.
// Documents without a created_date sort as if dated at the epoch. When any
// present created_date fails to parse the set is returned unsorted; ordering
// degrades rather than failing the request.
func (s *PGStore) List(ctx context.Context, collection string) ([]Document, error) {
	const selectSQL = `SELECT document FROM records WHERE collection = $1`

	rows, err := s.pool.Query(ctx, selectSQL, collection)
	if err != nil {
		return nil, fmt.Errorf("record: list %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("record: scan %s: %w", collection, err)
		}
		var doc Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("record: decode %s document: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("record: list %s: %w", collection, err)
	}

	sortByCreatedDate(docs)
	return docs, nil
}

// Get returns the document with the given id, or ErrNotFound.
func (s *PGStore) Get(ctx context.Context, collection, id string) (Document, error) {
	const selectSQL = `SELECT document FROM records WHERE collection = $1 AND id = $2`

	var raw []byte
	if err := s.pool.QueryRow(ctx, selectSQL, collection, id).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("record: get %s/%s: %w", collection, id, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("record: decode %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// Insert stores the document, assigning an id and created_date when absent.
// The document is persisted verbatim otherwise; no schema validation happens
// at this layer.
func (s *PGStore) Insert(ctx context.Context, collection string, doc Document) (Document, error) {
	stored := doc.Clone()
	if stored.String(KeyID) == "" {
		stored[KeyID] = uuid.NewString()
	}
	if _, ok := stored[KeyCreatedDate]; !ok {
		stored[KeyCreatedDate] = s.timestamp()
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("record: encode %s document: %w", collection, err)
	}

	const insertSQL = `INSERT INTO records (id, collection, document) VALUES ($1, $2, $3::jsonb)`
	if _, err := s.pool.Exec(ctx, insertSQL, stored.String(KeyID), collection, string(raw)); err != nil {
		return nil, fmt.Errorf("record: insert %s: %w", collection, err)
	}

	return stored, nil
}

// Update merges partial into the stored document key by key and stamps a new
// modified_date, even for an empty partial. The read and the write are two
// sequential operations; concurrent updates to the same record are
// last-writer-wins by design.
func (s *PGStore) Update(ctx context.Context, collection, id string, partial Document) (Document, error) {
	existing, err := s.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}

	merged := existing.Merge(partial)
	merged[KeyModifiedDate] = s.timestamp()

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("record: encode %s/%s: %w", collection, id, err)
	}

	const updateSQL = `UPDATE records SET document = $1::jsonb WHERE collection = $2 AND id = $3`
	if _, err := s.pool.Exec(ctx, updateSQL, string(raw), collection, id); err != nil {
		return nil, fmt.Errorf("record: update %s/%s: %w", collection, id, err)
	}

	return merged, nil
}

// Delete removes the record if present. Deleting an absent record is not an
// error.
func (s *PGStore) Delete(ctx context.Context, collection, id string) error {
	const deleteSQL = `DELETE FROM records WHERE collection = $1 AND id = $2`
	if _, err := s.pool.Exec(ctx, deleteSQL, collection, id); err != nil {
		return fmt.Errorf("record: delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// FindUserByEmail retrieves the user document whose email field equals the
// given address. This is the one lookup keyed by a document field rather
// than id, served by an expression index on the users collection.
func (s *PGStore) FindUserByEmail(ctx context.Context, email string) (Document, error) {
	const selectSQL = `
		SELECT document FROM records
		WHERE collection = 'users' AND document->>'email' = $1
		LIMIT 1
	`

	var raw []byte
	if err := s.pool.QueryRow(ctx, selectSQL, email).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("record: find user by email: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("record: decode user document: %w", err)
	}
	return doc, nil
}

func (s *PGStore) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func sortByCreatedDate(docs []Document) {
	type keyed struct {
		at  time.Time
		doc Document
	}

	items := make([]keyed, len(docs))
	for i, doc := range docs {
		item := keyed{doc: doc} // missing dates keep the zero time and sort last
		if raw, ok := doc[KeyCreatedDate]; ok {
			str, ok := raw.(string)
			if !ok {
				return
			}
			t, err := time.Parse(time.RFC3339Nano, str)
			if err != nil {
				return
			}
			item.at = t
		}
		items[i] = item
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].at.After(items[j].at)
	})
	for i := range items {
		docs[i] = items[i].doc
	}
}
