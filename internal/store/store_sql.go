package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLStore keeps every collection in one documents table with a JSON text
// column, so the same code serves the sqlite (local) and postgres (cloud)
// drivers. Field queries decode and filter in Go: collections are
// classroom-sized, and it keeps the store free of dialect-specific JSON
// operators.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) GetAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM documents WHERE collection=$1 ORDER BY created_at, id`, collection)
	if err != nil {
		return nil, fmt.Errorf("get all %s: %w", collection, err)
	}
	defer rows.Close()
	var out []json.RawMessage
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		out = append(out, json.RawMessage(data))
	}
	return out, rows.Err()
}

func (s *SQLStore) QueryByField(ctx context.Context, collection, field string, value any) ([]json.RawMessage, error) {
	raws, err := s.GetAll(ctx, collection)
	if err != nil {
		return nil, err
	}
	var out []json.RawMessage
	for _, raw := range raws {
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode %s record: %w", collection, err)
		}
		if jsonEqual(doc[field], value) {
			out = append(out, raw)
		}
	}
	return out, nil
}

func (s *SQLStore) Add(ctx context.Context, collection string, record any) (string, error) {
	id := uuid.NewString()
	doc, err := toDoc(record, id)
	if err != nil {
		return "", err
	}
	buf, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	now := time.Now().Unix()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection,id,data,created_at,updated_at) VALUES ($1,$2,$3,$4,$5)`,
		collection, id, string(buf), now, now)
	if err != nil {
		return "", fmt.Errorf("add %s: %w", collection, err)
	}
	return id, nil
}

func (s *SQLStore) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var data string
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection=$1 AND id=$2`, collection, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update %s: %w", collection, err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return fmt.Errorf("decode %s record: %w", collection, err)
	}
	for k, v := range partial {
		doc[k] = v
	}
	doc["id"] = id
	buf, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET data=$1, updated_at=$2 WHERE collection=$3 AND id=$4`,
		string(buf), time.Now().Unix(), collection, id); err != nil {
		return fmt.Errorf("update %s: %w", collection, err)
	}
	return tx.Commit()
}

func (s *SQLStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection=$1 AND id=$2`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", collection, err)
	}
	return nil
}
