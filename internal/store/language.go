package store

import (
	"context"

	"github.com/vocabuilder/api/internal/model"
	"gorm.io/gorm"
)

type LanguageStore struct {
	db *gorm.DB
}

func NewLanguageStore(db *gorm.DB) *LanguageStore {
	return &LanguageStore{db: db}
}

func (s *LanguageStore) ListActive(ctx context.Context) ([]model.Language, error) {
	var languages []model.Language
	err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&languages).Error
	return languages, err
}

func (s *LanguageStore) ListAll(ctx context.Context) ([]model.Language, error) {
	var languages []model.Language
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&languages).Error
	return languages, err
}

// Codes returns every registered language code, active or not.
func (s *LanguageStore) Codes(ctx context.Context) ([]string, error) {
	var codes []string
	err := s.db.WithContext(ctx).Model(&model.Language{}).Order("code ASC").Pluck("code", &codes).Error
	return codes, err
}

func (s *LanguageStore) FindByID(ctx context.Context, id int64) (*model.Language, error) {
	var language model.Language
	if err := s.db.WithContext(ctx).First(&language, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &language, nil
}

func (s *LanguageStore) FindByCode(ctx context.Context, code string) (*model.Language, error) {
	var language model.Language
	if err := s.db.WithContext(ctx).First(&language, "code = ?", code).Error; err != nil {
		return nil, translateError(err)
	}
	return &language, nil
}

func (s *LanguageStore) Create(ctx context.Context, language *model.Language) error {
	return s.db.WithContext(ctx).Create(language).Error
}

// Update applies the non-nil fields and returns the stored language.
func (s *LanguageStore) Update(ctx context.Context, id int64, name, flag *string, isActive *bool) (*model.Language, error) {
	fields := map[string]interface{}{}
	if name != nil {
		fields["name"] = *name
	}
	if flag != nil {
		fields["flag"] = *flag
	}
	if isActive != nil {
		fields["is_active"] = *isActive
	}

	language, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return language, nil
	}
	if err := s.db.WithContext(ctx).Model(language).Updates(fields).Error; err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

func (s *LanguageStore) Delete(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&model.Language{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
