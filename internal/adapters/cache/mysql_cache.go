package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/core"
)

// MySQLCache is a MySQL implementation of the ClassificationCache
// interface, sharing the FIFO-by-insertion-position contract with the
// SQLite cache.
type MySQLCache struct {
	db       *sql.DB
	capacity int
	mu       sync.Mutex
	logger   *zap.Logger
}

// NewMySQLCache creates a new MySQL-backed cache.
func NewMySQLCache(dsn string, capacity int, logger *zap.Logger) (*MySQLCache, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS triage_cache (
			position BIGINT AUTO_INCREMENT PRIMARY KEY,
			email_id VARCHAR(255) UNIQUE NOT NULL,
			classification TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLCache{
		db:       db,
		capacity: capacity,
		logger:   logger,
	}, nil
}

// Get retrieves a cached classification for an email id.
func (c *MySQLCache) Get(id string) (*core.Classification, bool) {
	var raw string
	err := c.db.QueryRow(`SELECT classification FROM triage_cache WHERE email_id = ?`, id).Scan(&raw)
	if err != nil {
		if err != sql.ErrNoRows {
			c.logger.Error("Failed to read cache entry", zap.String("email_id", id), zap.Error(err))
		}
		return nil, false
	}

	var classification core.Classification
	if err := json.Unmarshal([]byte(raw), &classification); err != nil {
		c.logger.Error("Failed to decode cache entry", zap.String("email_id", id), zap.Error(err))
		return nil, false
	}
	return &classification, true
}

// Put stores a classification, evicting the oldest-inserted entry first
// when the cache is at capacity. An update of an existing id keeps its
// original insertion position.
func (c *MySQLCache) Put(id string, classification *core.Classification) {
	raw, err := json.Marshal(classification)
	if err != nil {
		c.logger.Error("Failed to encode cache entry", zap.String("email_id", id), zap.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasLocked(id) {
		var count int
		if err := c.db.QueryRow(`SELECT COUNT(*) FROM triage_cache`).Scan(&count); err != nil {
			c.logger.Error("Failed to count cache entries", zap.Error(err))
			return
		}
		if count >= c.capacity {
			if _, err := c.db.Exec(`
				DELETE FROM triage_cache
				ORDER BY position ASC
				LIMIT 1
			`); err != nil {
				c.logger.Error("Failed to evict cache entry", zap.Error(err))
				return
			}
		}
	}

	_, err = c.db.Exec(`
		INSERT INTO triage_cache (email_id, classification) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE classification = VALUES(classification)
	`, id, string(raw))
	if err != nil {
		c.logger.Error("Failed to write cache entry", zap.String("email_id", id), zap.Error(err))
	}
}

// Has reports whether an id is cached.
func (c *MySQLCache) Has(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasLocked(id)
}

func (c *MySQLCache) hasLocked(id string) bool {
	var one int
	err := c.db.QueryRow(`SELECT 1 FROM triage_cache WHERE email_id = ?`, id).Scan(&one)
	return err == nil
}

// Clear drops every entry.
func (c *MySQLCache) Clear() {
	if _, err := c.db.Exec(`DELETE FROM triage_cache`); err != nil {
		c.logger.Error("Failed to clear cache", zap.Error(err))
	}
}

// Len returns the number of cached entries.
func (c *MySQLCache) Len() int {
	var count int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM triage_cache`).Scan(&count); err != nil {
		c.logger.Error("Failed to count cache entries", zap.Error(err))
		return 0
	}
	return count
}

// Close closes the underlying database.
func (c *MySQLCache) Close() error {
	return c.db.Close()
}
