package repositories

import (
	"errors"

	"blogd/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCategoryRepository implements CategoryDAO using BadgerDB. The whole
// tree is stored as one flattened value per blog.
type BadgerCategoryRepository struct {
	db     *badger.DB
	blogID string
}

// NewBadgerCategoryRepository creates a new BadgerCategoryRepository
func NewBadgerCategoryRepository(db *badger.DB, blogID string) *BadgerCategoryRepository {
	return &BadgerCategoryRepository{db: db, blogID: blogID}
}

func (r *BadgerCategoryRepository) key() []byte {
	return []byte(CategoryKeyPrefix + r.blogID)
}

// Categories returns nothing, without error, when no tree has been stored yet
func (r *BadgerCategoryRepository) Categories() ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(r.key())
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &categories)
		})
	})
	if err != nil {
		return nil, persistenceError("load categories", err)
	}
	return categories, nil
}

// PutCategories replaces the stored tree
func (r *BadgerCategoryRepository) PutCategories(root *models.Category) error {
	data, err := marshalEntity(root.Flatten())
	if err != nil {
		return persistenceError("put categories", err)
	}
	return persistenceError("put categories", r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(r.key(), data)
	}))
}
