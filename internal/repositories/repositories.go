package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is wrapped by every repository lookup that matches no row.
var ErrNotFound = errors.New("record not found")

// Repositories bundles the stores so a unit of work can hand all of them,
// bound to one transaction, to a caller.
type Repositories struct {
	Categories CategoryRepository
	Products   ProductRepository
	Carts      CartRepository
	Orders     OrderRepository
	Reviews    ReviewRepository
	Users      UserRepository
}

// Transactor runs fn against repositories that share a single database
// transaction. A non-nil error from fn rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(repos *Repositories) error) error
}

// NewGORMRepositories wires GORM implementations of every repository on db.
func NewGORMRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Categories: NewGORMCategoryRepository(db),
		Products:   NewGORMProductRepository(db),
		Carts:      NewGORMCartRepository(db),
		Orders:     NewGORMOrderRepository(db),
		Reviews:    NewGORMReviewRepository(db),
		Users:      NewGORMUserRepository(db),
	}
}

// GORMTransactor is the GORM implementation of Transactor.
type GORMTransactor struct {
	db *gorm.DB
}

var _ Transactor = (*GORMTransactor)(nil)

// NewGORMTransactor creates a new GORMTransactor.
func NewGORMTransactor(db *gorm.DB) *GORMTransactor {
	return &GORMTransactor{db: db}
}

// WithinTransaction implements Transactor.
func (t *GORMTransactor) WithinTransaction(ctx context.Context, fn func(repos *Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMRepositories(tx))
	})
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
