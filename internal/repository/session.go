package repository

import (
	"context"
	"time"

	"github.com/pixelfit/backend/internal/entity"
	"github.com/pixelfit/backend/pkg/xcontext"
)

type SessionRepository interface {
	Create(ctx context.Context, data *entity.Session) error
	GetUserByToken(ctx context.Context, token string) (*entity.User, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}

type sessionRepository struct{}

func NewSessionRepository() SessionRepository {
	return &sessionRepository{}
}

func (r *sessionRepository) Create(ctx context.Context, data *entity.Session) error {
	return xcontext.DB(ctx).Create(data).Error
}

// GetUserByToken joins sessions to users. Expired sessions never match, even
// if DeleteExpired has not swept them yet.
func (r *sessionRepository) GetUserByToken(ctx context.Context, token string) (*entity.User, error) {
	var record entity.User
	err := xcontext.DB(ctx).
		Model(&entity.User{}).
		Joins("join sessions on sessions.user_id=users.id").
		Where("sessions.token=? AND sessions.expires_at>?", token, time.Now()).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// DeleteByToken revokes a session. Deleting a missing token is a no-op.
func (r *sessionRepository) DeleteByToken(ctx context.Context, token string) error {
	return xcontext.DB(ctx).Where("token=?", token).Delete(&entity.Session{}).Error
}

func (r *sessionRepository) DeleteExpired(ctx context.Context) error {
	return xcontext.DB(ctx).Where("expires_at<=?", time.Now()).Delete(&entity.Session{}).Error
}
