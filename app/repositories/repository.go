package repositories

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Repository owns the Badger database shared by every blog of a site.
type Repository struct {
	db       *badger.DB
	mutex    sync.RWMutex
	dbPath   string
	isTestDB bool
}

// NewRepository opens the database at path. An empty path opens a fresh
// temporary database that is removed on Close.
func NewRepository(path string) (*Repository, error) {
	isTest := false
	if path == "" {
		tempPath, err := os.MkdirTemp("", "blogd_test_db_")
		if err != nil {
			return nil, fmt.Errorf("error creating temp dir: %w", err)
		}
		path = tempPath
		isTest = true
	}
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithSyncWrites(false).
		WithNumVersionsToKeep(1).
		WithNumGoroutines(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Repository{
		db:       db,
		dbPath:   path,
		isTestDB: isTest,
	}, nil
}

// NewInMemoryRepository opens a database that never touches disk.
func NewInMemoryRepository() (*Repository, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) DB() *badger.DB {
	return r.db
}

func (r *Repository) Path() string {
	return r.dbPath
}

// BlogEntries returns the entry DAO for one blog.
func (r *Repository) BlogEntries(blogID string, loc *time.Location) *BadgerBlogEntryRepository {
	return NewBadgerBlogEntryRepository(r.db, blogID, loc)
}

// Categories returns the category DAO for one blog.
func (r *Repository) Categories(blogID string) *BadgerCategoryRepository {
	return NewBadgerCategoryRepository(r.db, blogID)
}

// Backup streams a full backup and returns the version it covers.
func (r *Repository) Backup(w io.Writer) (uint64, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.db.Backup(w, 0)
}

// Restore loads a backup produced by Backup.
func (r *Repository) Restore(rd io.Reader) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.db.Load(rd, 4)
}

// Clear drops every key.
func (r *Repository) Clear() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.db.DropAll()
}

func (r *Repository) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if err := r.db.Close(); err != nil {
		return err
	}

	// Clean up test database
	if r.isTestDB {
		if err := os.RemoveAll(r.dbPath); err != nil {
			return fmt.Errorf("failed to cleanup test database: %w", err)
		}
	}
	return nil
}
