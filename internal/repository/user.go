package repository

import (
	"context"

	"github.com/pixelfit/backend/internal/entity"
	"github.com/pixelfit/backend/pkg/xcontext"
)

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByProviderSub(ctx context.Context, sub string) (*entity.User, error)
	UpdateByID(ctx context.Context, id int64, data *entity.User) error
	UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error)
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Where("email=?", email).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByProviderSub(ctx context.Context, sub string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Where("provider_sub=?", sub).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) UpdateByID(ctx context.Context, id int64, data *entity.User) error {
	updateMap := map[string]any{}
	if data.Provider != "" {
		updateMap["provider"] = data.Provider
	}

	if data.ProviderSub.Valid {
		updateMap["provider_sub"] = data.ProviderSub
	}

	if data.Name != "" {
		updateMap["name"] = data.Name
	}

	if data.Username.Valid {
		updateMap["username"] = data.Username
	}

	if data.AvatarURL != "" {
		updateMap["avatar_url"] = data.AvatarURL
	}

	return xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Updates(updateMap).Error
}

func (r *userRepository) UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.User{}).
		Where("username=? AND id<>?", username, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
