package repositories

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"blogd/app/models"

	json "github.com/goccy/go-json"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrPersistence = errors.New("persistence failure")
)

const (
	// Key prefixes for different entity types
	EntryKeyPrefix    = "entry:"
	DraftKeyPrefix    = "draft:"
	TemplateKeyPrefix = "template:"
	PageKeyPrefix     = "page:"
	CategoryKeyPrefix = "categories:"
)

// persistenceError wraps a storage failure so callers can test for ErrPersistence.
func persistenceError(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w: %v", op, ErrPersistence, err)
}

// entryKey places dated entries under their calendar day so months can be prefix scanned.
func entryKey(blogID string, t time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%s:%04d:%02d:%02d:%s", EntryKeyPrefix, blogID, t.Year(), int(t.Month()), t.Day(), id))
}

func monthPrefix(blogID string, year, month int) []byte {
	return []byte(fmt.Sprintf("%s%s:%04d:%02d:", EntryKeyPrefix, blogID, year, month))
}

func blogPrefix(prefix, blogID string) []byte {
	return []byte(prefix + blogID + ":")
}

func kindPrefix(kind models.Kind) string {
	switch kind {
	case models.KindDraft:
		return DraftKeyPrefix
	case models.KindTemplate:
		return TemplateKeyPrefix
	case models.KindStaticPage:
		return PageKeyPrefix
	default:
		return EntryKeyPrefix
	}
}

// yearFromEntryKey extracts the year segment of an entry key.
func yearFromEntryKey(key []byte, blogID string) (int, bool) {
	rest := strings.TrimPrefix(string(key), EntryKeyPrefix+blogID+":")
	var year int
	if _, err := fmt.Sscanf(rest, "%04d:", &year); err != nil {
		return 0, false
	}
	return year, true
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

func sortByTitle(entries []*models.BlogEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Title) < strings.ToLower(entries[j].Title)
	})
}
