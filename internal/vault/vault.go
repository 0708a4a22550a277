// Package vault is the user's personal library of enhanced media: a SQLite
// index next to a payload directory on disk. It implements the assemble.Saver
// collaborator, so a vault backup is what "save" means in this pipeline.
package vault

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/echocapsule/mediakit/internal/assemble"
	"github.com/echocapsule/mediakit/internal/media"
)

// Schema for the vault index.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id          TEXT PRIMARY KEY,
    type        TEXT NOT NULL,
    filename    TEXT NOT NULL,
    path        TEXT NOT NULL,
    size        INTEGER NOT NULL,
    metadata    TEXT,
    created_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_created ON items(created_at);
CREATE INDEX IF NOT EXISTS idx_items_type ON items(type);
`

// ErrNotFound reports a missing vault item.
var ErrNotFound = errors.New("vault item not found")

// Item is one vault entry.
type Item struct {
	ID        string
	Type      media.Type
	Filename  string
	Size      int64
	Metadata  *assemble.Metadata
	CreatedAt time.Time
}

// Vault is the SQLite-backed media library.
type Vault struct {
	db  *sql.DB
	dir string
}

// Open opens or creates a vault rooted at dir. The index lives at
// dir/vault.db and payloads under dir/media/.
func Open(dir string) (*Vault, error) {
	mediaDir := filepath.Join(dir, "media")
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		return nil, fmt.Errorf("create vault directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, "vault.db")+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open vault index: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply vault schema: %w", err)
	}

	return &Vault{db: db, dir: dir}, nil
}

// Close releases the index handle.
func (v *Vault) Close() error {
	return v.db.Close()
}

// Save stores an enhanced output durably: payload to disk first, then the
// index row, so a crash can orphan a file but never index a missing one.
func (v *Vault) Save(ctx context.Context, item assemble.Enhanced) error {
	id := uuid.NewString()
	path := filepath.Join(v.dir, "media", id+filepath.Ext(item.Filename))

	if err := os.WriteFile(path, item.Data, 0o644); err != nil {
		return fmt.Errorf("write vault payload: %w", err)
	}

	var metaJSON []byte
	if item.Metadata != nil {
		var err error
		metaJSON, err = json.Marshal(item.Metadata)
		if err != nil {
			return fmt.Errorf("marshal vault metadata: %w", err)
		}
	}

	_, err := v.db.ExecContext(ctx,
		`INSERT INTO items (id, type, filename, path, size, metadata, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, string(item.Type), item.Filename, path, len(item.Data), nullable(metaJSON), time.Now().Unix(),
	)
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("index vault item: %w", err)
	}

	log.Debug().
		Str("vault_id", id).
		Str("type", string(item.Type)).
		Int("size_bytes", len(item.Data)).
		Msg("Vault item saved")

	return nil
}

func nullable(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

// List returns vault items, newest first.
func (v *Vault) List(ctx context.Context) ([]Item, error) {
	rows, err := v.db.QueryContext(ctx,
		`SELECT id, type, filename, size, metadata, created_at FROM items ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list vault items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			it       Item
			typ      string
			metaJSON sql.NullString
			created  int64
		)
		if err := rows.Scan(&it.ID, &typ, &it.Filename, &it.Size, &metaJSON, &created); err != nil {
			return nil, fmt.Errorf("scan vault item: %w", err)
		}
		it.Type = media.Type(typ)
		it.CreatedAt = time.Unix(created, 0)
		if metaJSON.Valid {
			var meta assemble.Metadata
			if err := json.Unmarshal([]byte(metaJSON.String), &meta); err == nil {
				it.Metadata = &meta
			}
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

// Get returns one item and its payload.
func (v *Vault) Get(ctx context.Context, id string) (Item, []byte, error) {
	var (
		it       Item
		typ      string
		path     string
		metaJSON sql.NullString
		created  int64
	)

	err := v.db.QueryRowContext(ctx,
		`SELECT id, type, filename, path, size, metadata, created_at FROM items WHERE id = ?`, id,
	).Scan(&it.ID, &typ, &it.Filename, &path, &it.Size, &metaJSON, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Item{}, nil, fmt.Errorf("read vault item: %w", err)
	}

	it.Type = media.Type(typ)
	it.CreatedAt = time.Unix(created, 0)
	if metaJSON.Valid {
		var meta assemble.Metadata
		if err := json.Unmarshal([]byte(metaJSON.String), &meta); err == nil {
			it.Metadata = &meta
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Item{}, nil, fmt.Errorf("read vault payload: %w", err)
	}

	return it, data, nil
}

// Delete removes an item and its payload.
func (v *Vault) Delete(ctx context.Context, id string) error {
	var path string
	err := v.db.QueryRowContext(ctx, `SELECT path FROM items WHERE id = ?`, id).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("read vault item: %w", err)
	}

	if _, err := v.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete vault item: %w", err)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("vault_id", id).Msg("Vault payload left behind after delete")
	}

	return nil
}
