package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("user not found")

type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]User, error)
}
