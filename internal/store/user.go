package store

import (
	"context"

	"github.com/vocabuilder/api/internal/model"
	"gorm.io/gorm"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// UserStats is the admin dashboard summary.
type UserStats struct {
	TotalUsers   int64 `json:"totalUsers"`
	ActiveUsers  int64 `json:"activeUsers"`
	AdminUsers   int64 `json:"adminUsers"`
	TotalVocabs  int64 `json:"totalVocabs"`
	TotalQuizzes int64 `json:"totalQuizzes"`
}

// UserUpdate holds admin-editable fields; nil fields are left unchanged.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Username  *string
	Email     *string
	Role      *string
	IsActive  *bool
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// ExistsByEmailOrUsername reports whether either identifier is already taken.
func (s *UserStore) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	return count > 0, err
}

func (s *UserStore) FindByProvider(ctx context.Context, provider, providerID string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "provider = ? AND provider_id = ?", provider, providerID).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *UserStore) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

func (s *UserStore) Update(ctx context.Context, id string, upd UserUpdate) (*model.User, error) {
	fields := map[string]interface{}{}
	if upd.FirstName != nil {
		fields["first_name"] = *upd.FirstName
	}
	if upd.LastName != nil {
		fields["last_name"] = *upd.LastName
	}
	if upd.Username != nil {
		fields["username"] = *upd.Username
	}
	if upd.Email != nil {
		fields["email"] = *upd.Email
	}
	if upd.Role != nil {
		fields["role"] = *upd.Role
	}
	if upd.IsActive != nil {
		fields["is_active"] = *upd.IsActive
	}

	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return user, nil
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(fields).Error; err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

// UpdateProfile refreshes identity-provider fields after an external login.
func (s *UserStore) UpdateProfile(ctx context.Context, user *model.User, email, name, avatarURL string) error {
	return s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"email":      email,
		"first_name": name,
		"avatar_url": avatarURL,
	}).Error
}

// DeleteCascade removes the user together with everything they own.
func (s *UserStore) DeleteCascade(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("created_by = ?", id).Delete(&model.Vocabulary{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.QuizResult{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (s *UserStore) Stats(ctx context.Context) (*UserStats, error) {
	var stats UserStats
	db := s.db.WithContext(ctx)

	if err := db.Model(&model.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.User{}).Where("is_active = ?", true).Count(&stats.ActiveUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&stats.AdminUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Vocabulary{}).Count(&stats.TotalVocabs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.QuizResult{}).Count(&stats.TotalQuizzes).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
