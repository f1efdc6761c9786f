package repository

import (
	"context"
	"time"

	"github.com/pixelfit/backend/internal/entity"
	"github.com/pixelfit/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type OAuthStateRepository interface {
	Create(ctx context.Context, data *entity.OAuthState) error
	Consume(ctx context.Context, state string) (*entity.OAuthState, error)
	DeleteExpired(ctx context.Context, ttl time.Duration) error
}

type oauthStateRepository struct{}

func NewOAuthStateRepository() OAuthStateRepository {
	return &oauthStateRepository{}
}

func (r *oauthStateRepository) Create(ctx context.Context, data *entity.OAuthState) error {
	return xcontext.DB(ctx).Create(data).Error
}

// Consume redeems a state exactly once. The delete is the commit point: if
// two callers race on the same state, only the one whose delete removed the
// row gets it back, the other sees record-not-found.
func (r *oauthStateRepository) Consume(ctx context.Context, state string) (*entity.OAuthState, error) {
	var record entity.OAuthState
	if err := xcontext.DB(ctx).Where("state=?", state).Take(&record).Error; err != nil {
		return nil, err
	}

	result := xcontext.DB(ctx).Where("state=?", state).Delete(&entity.OAuthState{})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return &record, nil
}

func (r *oauthStateRepository) DeleteExpired(ctx context.Context, ttl time.Duration) error {
	return xcontext.DB(ctx).
		Where("created_at<=?", time.Now().Add(-ttl)).
		Delete(&entity.OAuthState{}).Error
}
