package mysql

import (
	"context"

	"gorm.io/gorm"

	"campus-lending/internal/domain/user"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	return duplicate(r.db.WithContext(ctx).Create(u).Error, user.ErrDuplicateCode)
}

func (r *UserRepository) get(ctx context.Context, query string, arg any) (*user.User, error) {
	var out user.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&out).Error; err != nil {
		return nil, notFound(err, user.ErrNotFound)
	}
	return &out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*user.User, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*user.User, error) {
	return r.get(ctx, "user_id = ?", userID)
}

func (r *UserRepository) GetByCode(ctx context.Context, code string) (*user.User, error) {
	return r.get(ctx, "code = ?", code)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(r.db.WithContext(ctx).Unscoped().Model(&user.User{}).Where("email = ?", email))
}

func (r *UserRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return exists(r.db.WithContext(ctx).Unscoped().Model(&user.User{}).Where("code = ?", code))
}
