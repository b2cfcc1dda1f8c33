package memory

import (
	"context"
	"sort"
	"sync"

	"machinaka-be/internal/model"
	"machinaka-be/internal/repository/contract"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[string]*model.User),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	stored := *user

	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[stored.ID] = &stored
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, contract.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return contract.ErrNotFound
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]model.User, int64, error) {
	r.mu.RLock()
	all := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, *u)
	}
	r.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := int64(len(all))
	if offset >= len(all) {
		return []model.User{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}
