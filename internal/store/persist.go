package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"

	"flashgenius/internal/config"
	"flashgenius/internal/models"
)

const (
	kbEntryName        = "flashgenius-kb"
	syntheticEntryName = "synthetic-data-enabled"
	deckEntryName      = "flashgenius-deck"
)

// KVEntry is one named entry in local key-value storage.
type KVEntry struct {
	bun.BaseModel `bun:"table:kv_entries,alias:kv"`
	Name          string `bun:"name,pk"`
	Value         []byte `bun:"value,notnull"`
}

// KV persists the document store as a single named entry in an embedded
// sqlite database, plus a second entry for the synthetic-data preference.
type KV struct {
	db *bun.DB
}

// OpenKV opens (creating if needed) the on-device storage file.
func OpenKV(ctx context.Context, cfg *config.StoreConfig) (*KV, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if _, err := db.NewCreateTable().Model((*KVEntry)(nil)).IfNotExists().Exec(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return &KV{db: db}, nil
}

func (kv *KV) LoadDocuments(ctx context.Context) ([]models.Document, error) {
	value, err := kv.get(ctx, kbEntryName)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}

	var docs []models.Document
	if err := json.Unmarshal(value, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode knowledge base: %w", err)
	}
	return docs, nil
}

func (kv *KV) SaveDocuments(ctx context.Context, docs []models.Document) error {
	value, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("failed to encode knowledge base: %w", err)
	}
	return kv.put(ctx, kbEntryName, value)
}

// LoadSyntheticEnabled defaults to true when the preference was never set,
// matching first-run behavior.
func (kv *KV) LoadSyntheticEnabled(ctx context.Context) (bool, error) {
	value, err := kv.get(ctx, syntheticEntryName)
	if err != nil {
		return false, err
	}
	if value == nil {
		return true, nil
	}
	enabled, err := strconv.ParseBool(string(value))
	if err != nil {
		return true, nil
	}
	return enabled, nil
}

func (kv *KV) SaveSyntheticEnabled(ctx context.Context, enabled bool) error {
	return kv.put(ctx, syntheticEntryName, []byte(strconv.FormatBool(enabled)))
}

// SaveDeck stores the most recently generated deck.
func (kv *KV) SaveDeck(ctx context.Context, deck models.Deck) error {
	value, err := json.Marshal(deck)
	if err != nil {
		return fmt.Errorf("failed to encode deck: %w", err)
	}
	return kv.put(ctx, deckEntryName, value)
}

// LoadDeck returns the most recently generated deck, or an empty one when
// nothing has been generated yet.
func (kv *KV) LoadDeck(ctx context.Context) (models.Deck, error) {
	var deck models.Deck
	value, err := kv.get(ctx, deckEntryName)
	if err != nil {
		return deck, err
	}
	if value == nil {
		return deck, nil
	}
	if err := json.Unmarshal(value, &deck); err != nil {
		return deck, fmt.Errorf("failed to decode deck: %w", err)
	}
	return deck, nil
}

func (kv *KV) Close() error {
	return kv.db.Close()
}

func (kv *KV) get(ctx context.Context, name string) ([]byte, error) {
	entry := new(KVEntry)
	err := kv.db.NewSelect().Model(entry).Where("name = ?", name).Scan(ctx)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", name, err)
	}
	return entry.Value, nil
}

func (kv *KV) put(ctx context.Context, name string, value []byte) error {
	entry := &KVEntry{Name: name, Value: value}
	_, err := kv.db.NewInsert().
		Model(entry).
		On("CONFLICT (name) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", name, err)
	}
	return nil
}
