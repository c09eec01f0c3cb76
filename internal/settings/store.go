package settings

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ghactivity/internal/logging"
	"ghactivity/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultProfile names the selection used when no profile is given.
const DefaultProfile = "default"

// SQLiteStore persists one filter selection per profile.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// OpenStore creates or opens the filters database at dbPath.
func OpenStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db, dbPath: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	logging.StoreDebug("opened filters database %s", dbPath)
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS filters (
		profile TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);`)
	return err
}

// Load returns the saved selection for profile, or DefaultFilters when none
// is saved. Fields missing from a stored payload take their default values.
func (s *SQLiteStore) Load(profile string) (types.FilterConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRow(`SELECT payload FROM filters WHERE profile = ?`, profile).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultFilters(), nil
	}
	if err != nil {
		return types.FilterConfig{}, fmt.Errorf("failed to load filters: %w", err)
	}

	f := DefaultFilters()
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		return types.FilterConfig{}, fmt.Errorf("failed to decode stored filters: %w", err)
	}
	return f, nil
}

// Save stores f for profile, replacing any previous selection.
func (s *SQLiteStore) Save(profile string, f types.FilterConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode filters: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO filters (profile, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(profile) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, profile, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save filters: %w", err)
	}
	logging.Store("saved filters for profile %s", profile)
	return nil
}

// Reset stores DefaultFilters for profile.
func (s *SQLiteStore) Reset(profile string) error {
	return s.Save(profile, DefaultFilters())
}

// UpdatedAt returns when profile was last saved; ok is false if never.
func (s *SQLiteStore) UpdatedAt(profile string) (t time.Time, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	err = s.db.QueryRow(`SELECT updated_at FROM filters WHERE profile = ?`, profile).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read filters timestamp: %w", err)
	}
	return t, true, nil
}
