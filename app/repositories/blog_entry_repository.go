package repositories

import (
	"errors"
	"sort"
	"time"

	"blogd/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerBlogEntryRepository implements BlogEntryDAO using BadgerDB
type BadgerBlogEntryRepository struct {
	db     *badger.DB
	blogID string
	loc    *time.Location
	now    func() time.Time
}

// NewBadgerBlogEntryRepository creates a repository for one blog. Entries are
// filed under their calendar day in loc.
func NewBadgerBlogEntryRepository(db *badger.DB, blogID string, loc *time.Location) *BadgerBlogEntryRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &BadgerBlogEntryRepository{db: db, blogID: blogID, loc: loc, now: time.Now}
}

func (r *BadgerBlogEntryRepository) keyFor(entry *models.BlogEntry) ([]byte, error) {
	if entry.Kind != "" && entry.Kind != models.KindEntry {
		return []byte(kindPrefix(entry.Kind) + r.blogID + ":" + entry.ID), nil
	}
	date, err := models.DateFromID(entry.ID)
	if err != nil {
		return nil, err
	}
	return entryKey(r.blogID, date.In(r.loc), entry.ID), nil
}

// YearlyBlogs scans entry keys only; values are not read.
func (r *BadgerBlogEntryRepository) YearlyBlogs() ([]*models.YearlyBlog, error) {
	years := map[int]struct{}{r.now().In(r.loc).Year(): {}}

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := blogPrefix(EntryKeyPrefix, r.blogID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if year, ok := yearFromEntryKey(it.Item().Key(), r.blogID); ok {
				years[year] = struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		return nil, persistenceError("list years", err)
	}

	sorted := make([]int, 0, len(years))
	for year := range years {
		sorted = append(sorted, year)
	}
	sort.Ints(sorted)

	yearly := make([]*models.YearlyBlog, 0, len(sorted))
	for _, year := range sorted {
		yearly = append(yearly, models.NewYearlyBlog(year))
	}
	return yearly, nil
}

// BlogEntries retrieves the entries filed under one month
func (r *BadgerBlogEntryRepository) BlogEntries(year, month int) ([]*models.BlogEntry, error) {
	entries, err := r.scan(monthPrefix(r.blogID, year, month))
	if err != nil {
		return nil, persistenceError("load month", err)
	}
	return entries, nil
}

// BlogEntry retrieves a dated entry by id
func (r *BadgerBlogEntryRepository) BlogEntry(id string) (*models.BlogEntry, error) {
	key, err := r.keyFor(&models.BlogEntry{ID: id, Kind: models.KindEntry})
	if err != nil {
		return nil, ErrNotFound
	}

	var entry models.BlogEntry
	err = r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &entry)
		})
	})
	if err != nil {
		return nil, persistenceError("get entry", err)
	}
	return &entry, nil
}

// PutBlogEntry creates or replaces an entry
func (r *BadgerBlogEntryRepository) PutBlogEntry(entry *models.BlogEntry) error {
	key, err := r.keyFor(entry)
	if err != nil {
		return persistenceError("put entry", err)
	}
	data, err := marshalEntity(entry)
	if err != nil {
		return persistenceError("put entry", err)
	}
	return persistenceError("put entry", r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	}))
}

// RemoveBlogEntry deletes an entry. The key is derived from the entry id,
// so an entry whose date has since changed is still found.
func (r *BadgerBlogEntryRepository) RemoveBlogEntry(entry *models.BlogEntry) error {
	key, err := r.keyFor(entry)
	if err != nil {
		return persistenceError("remove entry", err)
	}
	return persistenceError("remove entry", r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return txn.Delete(key)
	}))
}

func (r *BadgerBlogEntryRepository) DraftBlogEntries() ([]*models.BlogEntry, error) {
	return r.listByTitle(DraftKeyPrefix)
}

func (r *BadgerBlogEntryRepository) BlogEntryTemplates() ([]*models.BlogEntry, error) {
	return r.listByTitle(TemplateKeyPrefix)
}

func (r *BadgerBlogEntryRepository) StaticPages() ([]*models.BlogEntry, error) {
	return r.listByTitle(PageKeyPrefix)
}

func (r *BadgerBlogEntryRepository) listByTitle(prefix string) ([]*models.BlogEntry, error) {
	entries, err := r.scan(blogPrefix(prefix, r.blogID))
	if err != nil {
		return nil, persistenceError("list "+prefix, err)
	}
	sortByTitle(entries)
	return entries, nil
}

func (r *BadgerBlogEntryRepository) scan(prefix []byte) ([]*models.BlogEntry, error) {
	var entries []*models.BlogEntry
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var entry models.BlogEntry
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &entry)
			})
			if err != nil {
				return err
			}
			entries = append(entries, &entry)
		}
		return nil
	})
	return entries, err
}
