package search

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"blogd/app/models"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
)

const (
	termKeyPrefix = "term:"
	docKeyPrefix  = "doc:"
)

var markup = regexp.MustCompile(`<[^>]*>`)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"for": {}, "in": {}, "is": {}, "it": {}, "of": {}, "on": {}, "or": {}, "the": {},
	"to": {}, "was": {}, "with": {},
}

// Exists reports whether dir already holds an index.
func Exists(dir string) bool {
	if dir == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(dir, "MANIFEST"))
	return err == nil
}

// Index is an inverted index of blog entries stored in its own Badger database.
type Index struct {
	db      *badger.DB
	existed bool
}

// Open opens or creates the index in dir. An empty dir keeps the index in memory.
func Open(dir string) (*Index, error) {
	existed := Exists(dir)
	opts := badger.DefaultOptions(dir).WithLogger(nil).WithNumVersionsToKeep(1)
	if dir == "" {
		opts = opts.WithInMemory(true)
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return &Index{db: db, existed: existed}, nil
}

// Exists reports whether the index was found on disk when it was opened.
func (i *Index) Exists() bool {
	return i.existed
}

// Terms splits text into lowercase index terms.
func Terms(text string) []string {
	text = markup.ReplaceAllString(text, " ")
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]struct{}, len(words))
	var terms []string
	for _, w := range words {
		if len(w) < 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		terms = append(terms, w)
	}
	return terms
}

func entryTerms(e *models.BlogEntry) []string {
	parts := []string{e.Title, e.Subtitle, e.Body, e.Excerpt, e.Author}
	parts = append(parts, e.TagNames()...)
	for _, c := range e.Categories {
		parts = append(parts, strings.ReplaceAll(c, "/", " "))
	}
	return Terms(strings.Join(parts, " "))
}

func termKey(term, id string) []byte {
	return []byte(termKeyPrefix + term + ":" + id)
}

func docKey(id string) []byte {
	return []byte(docKeyPrefix + id)
}

func unindexTxn(txn *badger.Txn, id string) error {
	item, err := txn.Get(docKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	var terms []string
	if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &terms) }); err != nil {
		return err
	}
	for _, term := range terms {
		if err := txn.Delete(termKey(term, id)); err != nil {
			return err
		}
	}
	return txn.Delete(docKey(id))
}

func indexTxn(txn *badger.Txn, e *models.BlogEntry) error {
	if err := unindexTxn(txn, e.ID); err != nil {
		return err
	}
	terms := entryTerms(e)
	data, err := json.Marshal(terms)
	if err != nil {
		return err
	}
	for _, term := range terms {
		if err := txn.Set(termKey(term, e.ID), nil); err != nil {
			return err
		}
	}
	return txn.Set(docKey(e.ID), data)
}

// IndexEntry adds or refreshes one entry.
func (i *Index) IndexEntry(e *models.BlogEntry) error {
	return i.db.Update(func(txn *badger.Txn) error {
		return indexTxn(txn, e)
	})
}

// UnindexEntry removes one entry.
func (i *Index) UnindexEntry(e *models.BlogEntry) error {
	return i.db.Update(func(txn *badger.Txn) error {
		return unindexTxn(txn, e.ID)
	})
}

// Rebuild replaces the index contents with entries.
func (i *Index) Rebuild(entries []*models.BlogEntry) error {
	if err := i.db.DropAll(); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	for _, e := range entries {
		if err := i.IndexEntry(e); err != nil {
			return fmt.Errorf("index entry %s: %w", e.ID, err)
		}
	}
	i.existed = true
	return nil
}

// Search returns the ids of entries containing every query term, newest first.
func (i *Index) Search(query string) ([]string, error) {
	terms := Terms(query)
	if len(terms) == 0 {
		return nil, nil
	}

	var matches map[string]struct{}
	err := i.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		for _, term := range terms {
			found := make(map[string]struct{})
			prefix := []byte(termKeyPrefix + term + ":")
			it := txn.NewIterator(opts)
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				id := strings.TrimPrefix(string(it.Item().Key()), string(prefix))
				if matches == nil {
					found[id] = struct{}{}
				} else if _, ok := matches[id]; ok {
					found[id] = struct{}{}
				}
			}
			it.Close()
			matches = found
			if len(matches) == 0 {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	ids := make([]string, 0, len(matches))
	for id := range matches {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool {
		x, _ := strconv.ParseInt(ids[a], 10, 64)
		y, _ := strconv.ParseInt(ids[b], 10, 64)
		return x > y
	})
	return ids, nil
}

func (i *Index) Close() error {
	return i.db.Close()
}
