package books

import (
	"context"

	"bookshelf/internal/types"
)

type Repository interface {
	// EnsureSchema creates the books table unless it already exists.
	EnsureSchema(ctx context.Context) error
	Ping(ctx context.Context) error

	// Insert fills in DateAdded and Status of md when zero and returns the new id.
	Insert(ctx context.Context, md *types.Metadata) (int64, error)

	// GetAll returns books, most recently added first.
	GetAll(ctx context.Context) ([]*types.Book, error)
	// GetById returns nil, nil when there is no such book.
	GetById(ctx context.Context, id int64) (*types.Book, error)

	// UpdateStatus and Delete do not check that the book exists,
	// touching a missing id succeeds without effect.
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}
