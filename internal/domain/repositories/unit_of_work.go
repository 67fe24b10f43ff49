package repositories

import (
	"context"
)

// UnitOfWork runs repository operations in one transaction scope.
type UnitOfWork interface {
	// Do executes fn within a transaction; any error rolls it back.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
