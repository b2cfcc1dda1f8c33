package implementation

import (
	"context"
	"errors"
	"time"

	"machinaka-be/internal/model"
	"machinaka-be/internal/repository/contract"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type userRow struct {
	ID             string                      `gorm:"type:varchar(64);primaryKey"`
	Username       string                      `gorm:"type:varchar(50);not null"`
	Age            int                         `gorm:"not null"`
	Gender         string                      `gorm:"type:varchar(10);not null"`
	Interests      datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	SeekingType    string                      `gorm:"type:varchar(20);not null;default:'friendship'"`
	ProfilePicture string                      `gorm:"type:text"`
	Bio            string                      `gorm:"type:text"`
	CreatedAt      time.Time                   `gorm:"not null;index:idx_users_created"`
	UpdatedAt      time.Time                   `gorm:"not null"`
}

func (userRow) TableName() string { return "users" }

func userToRow(u *model.User) *userRow {
	return &userRow{
		ID:             u.ID,
		Username:       u.Username,
		Age:            u.Age,
		Gender:         u.Gender,
		Interests:      datatypes.NewJSONSlice(u.Interests),
		SeekingType:    string(u.SeekingType),
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (row *userRow) toModel() model.User {
	return model.User{
		ID:             row.ID,
		Username:       row.Username,
		Age:            row.Age,
		Gender:         row.Gender,
		Interests:      row.Interests,
		SeekingType:    model.SeekingType(row.SeekingType),
		ProfilePicture: row.ProfilePicture,
		Bio:            row.Bio,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(userToRow(user)).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var row userRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, contract.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u := row.toModel()
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	// A map, not a struct: struct updates skip zero values, which would keep
	// the old bio when a client clears it to "".
	res := r.db.WithContext(ctx).Model(&userRow{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"username":        user.Username,
			"age":             user.Age,
			"gender":          user.Gender,
			"interests":       datatypes.NewJSONSlice(user.Interests),
			"seeking_type":    string(user.SeekingType),
			"profile_picture": user.ProfilePicture,
			"bio":             user.Bio,
			"updated_at":      user.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]model.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&userRow{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []userRow
	err := r.db.WithContext(ctx).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]model.User, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, total, nil
}

// AutoMigrate creates the durable tables when a database is configured.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&encounterRow{}, &userRow{})
}
