package contract

import (
	"context"

	"machinaka-be/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error

	// List returns users newest first plus the total count.
	List(ctx context.Context, limit, offset int) ([]model.User, int64, error)
}
