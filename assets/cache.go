package assets

import (
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS images (
	document  TEXT NOT NULL,
	object_id TEXT NOT NULL,
	revision  TEXT NOT NULL,
	content   BLOB NOT NULL,
	stored_at INTEGER NOT NULL,
	PRIMARY KEY (document, object_id)
);`

// Cache keeps downloaded image bytes between runs. Entries are valid for a
// single document revision, content links expire quickly and documents
// rarely change between exports.
type Cache struct {
	mu   sync.Mutex
	conn *sqlite.Conn
	log  *zap.Logger
}

// OpenCache opens or creates cache database at path. ":memory:" gives
// private in-memory cache.
func OpenCache(path string, log *zap.Logger) (*Cache, error) {
	flags := []sqlite.OpenFlags{sqlite.OpenReadWrite, sqlite.OpenCreate, sqlite.OpenWAL}
	if path == ":memory:" {
		flags = []sqlite.OpenFlags{sqlite.OpenReadWrite, sqlite.OpenMemory}
	}
	conn, err := sqlite.OpenConn(path, flags...)
	if err != nil {
		return nil, fmt.Errorf("unable to open image cache: %w", err)
	}
	if err := sqlitex.ExecuteScript(conn, cacheSchema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to prepare image cache: %w", err)
	}
	return &Cache{conn: conn, log: log}, nil
}

// Get returns cached content for object of given document revision.
func (c *Cache) Get(document, revision, objectID string) ([]byte, bool, error) {
	if c == nil || revision == "" {
		return nil, false, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		data  []byte
		found bool
	)
	err := sqlitex.Execute(c.conn, `SELECT content FROM images WHERE document = ? AND object_id = ? AND revision = ?`,
		&sqlitex.ExecOptions{
			Args: []any{document, objectID, revision},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				data, err = io.ReadAll(stmt.ColumnReader(0))
				found = true
				return err
			},
		})
	if err != nil {
		return nil, false, fmt.Errorf("unable to query image cache: %w", err)
	}
	return data, found, nil
}

// Put stores content replacing entry of any previous revision.
func (c *Cache) Put(document, revision, objectID string, data []byte) error {
	if c == nil || revision == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	err := sqlitex.Execute(c.conn, `INSERT OR REPLACE INTO images (document, object_id, revision, content, stored_at) VALUES (?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{document, objectID, revision, data, time.Now().Unix()}})
	if err != nil {
		return fmt.Errorf("unable to update image cache: %w", err)
	}
	c.log.Debug("Image cached", zap.String("document", document), zap.String("id", objectID), zap.Int("bytes", len(data)))
	return nil
}

// Purge removes entries of document which do not belong to revision.
func (c *Cache) Purge(document, revision string) error {
	if c == nil || revision == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	err := sqlitex.Execute(c.conn, `DELETE FROM images WHERE document = ? AND revision <> ?`,
		&sqlitex.ExecOptions{Args: []any{document, revision}})
	if err != nil {
		return fmt.Errorf("unable to purge image cache: %w", err)
	}
	if n := c.conn.Changes(); n > 0 {
		c.log.Debug("Stale cache entries removed", zap.String("document", document), zap.Int("count", n))
	}
	return nil
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}
