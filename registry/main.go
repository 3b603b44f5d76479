package registry

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Block records where a block lives: its worker host, the local path when the
// block is on this host, and its total length in bytes.
type Block struct {
	ID    int64
	Host  string
	Path  string
	Bytes int64
}

// Registry is the sqlite backed block metadata store.
type Registry struct {
	database *sql.DB
}

func Open(path string) (*Registry, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry %s: %w", path, err)
	}

	_, err = database.Exec(`
                CREATE TABLE IF NOT EXISTS blocks (
                        id INTEGER PRIMARY KEY,
                        host TEXT,
                        path TEXT,
                        bytes INTEGER
                )
        `)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create blocks table: %w", err)
	}

	return &Registry{
		database: database,
	}, nil
}

func (registry *Registry) GetBlock(id int64) (*Block, error) {
	block := &Block{}

	err := registry.database.QueryRow("SELECT id, host, path, bytes FROM blocks WHERE id = ?", id).
		Scan(&block.ID, &block.Host, &block.Path, &block.Bytes)
	if err != nil {
		return nil, err
	}

	return block, nil
}

func (registry *Registry) InsertBlock(block Block) error {
	_, err := registry.database.Exec(
		"INSERT OR REPLACE INTO blocks (id, host, path, bytes) VALUES (?, ?, ?, ?)",
		block.ID, block.Host, block.Path, block.Bytes,
	)

	return err
}

func (registry *Registry) GetAllBlocks() ([]Block, error) {
	rows, err := registry.database.Query("SELECT id, host, path, bytes FROM blocks ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []Block

	for rows.Next() {
		var block Block

		if err := rows.Scan(&block.ID, &block.Host, &block.Path, &block.Bytes); err != nil {
			return nil, err
		}

		blocks = append(blocks, block)
	}

	return blocks, rows.Err()
}

func (registry *Registry) Close() error {
	return registry.database.Close()
}
