package service

import (
	"context"
	"errors"
	"time"

	"machinaka-be/internal/dto"
	"machinaka-be/internal/model"
	"machinaka-be/internal/pkg/logger"
	"machinaka-be/internal/repository/contract"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

type IUserService interface {
	Register(ctx context.Context, req dto.RegisterUserRequest) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, id string, req dto.UpdateUserRequest) (*model.User, error)
	List(ctx context.Context, limit, offset int) ([]model.User, int64, error)
}

type userService struct {
	users  contract.UserRepository
	logger logger.ILogger
}

func NewUserService(users contract.UserRepository, log logger.ILogger) IUserService {
	return &userService{users: users, logger: log}
}

func (s *userService) Register(ctx context.Context, req dto.RegisterUserRequest) (*model.User, error) {
	seeking := model.SeekingType(req.SeekingType)
	if seeking == "" {
		seeking = model.SeekingFriendship
	}

	interests := req.Interests
	if interests == nil {
		interests = []string{}
	}

	now := time.Now()
	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Age:            req.Age,
		Gender:         req.Gender,
		Interests:      interests,
		SeekingType:    seeking,
		ProfilePicture: req.ProfilePicture,
		Bio:            req.Bio,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("UserService", "User registered", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, contract.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// Update applies only the fields present in the request. ID and CreatedAt
// never change.
func (s *userService) Update(ctx context.Context, id string, req dto.UpdateUserRequest) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, contract.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Age != nil {
		user.Age = *req.Age
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.Interests != nil {
		user.Interests = req.Interests
	}
	if req.SeekingType != nil {
		user.SeekingType = model.SeekingType(*req.SeekingType)
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]model.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, limit, offset)
}
