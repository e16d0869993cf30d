package store

import (
	"context"

	"github.com/vocabuilder/api/internal/model"
	"gorm.io/gorm"
)

type VocabularyStore struct {
	db *gorm.DB
}

func NewVocabularyStore(db *gorm.DB) *VocabularyStore {
	return &VocabularyStore{db: db}
}

// VocabularyUpdate carries the owner-editable fields of an entry.
type VocabularyUpdate struct {
	Translations   model.Translations
	SourceLanguage string
	UsedLanguages  model.LanguageCodes
	Definition     string
	Example        string
}

// ListAll returns every entry across all users, newest first.
func (s *VocabularyStore) ListAll(ctx context.Context) ([]model.Vocabulary, error) {
	var vocabs []model.Vocabulary
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&vocabs).Error
	return vocabs, err
}

func (s *VocabularyStore) ListByCreator(ctx context.Context, userID string) ([]model.Vocabulary, error) {
	var vocabs []model.Vocabulary
	err := s.db.WithContext(ctx).Where("created_by = ?", userID).Order("created_at DESC").Find(&vocabs).Error
	return vocabs, err
}

// Batches streams all entries in primary key order, batchSize at a time.
func (s *VocabularyStore) Batches(ctx context.Context, batchSize int, fn func([]model.Vocabulary) error) error {
	var batch []model.Vocabulary
	return s.db.WithContext(ctx).FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
		return fn(batch)
	}).Error
}

func (s *VocabularyStore) FindByID(ctx context.Context, id string) (*model.Vocabulary, error) {
	var vocab model.Vocabulary
	if err := s.db.WithContext(ctx).First(&vocab, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &vocab, nil
}

// FindByIDs returns the entries that still exist, keyed by id.
func (s *VocabularyStore) FindByIDs(ctx context.Context, ids []string) (map[string]model.Vocabulary, error) {
	found := make(map[string]model.Vocabulary, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	var vocabs []model.Vocabulary
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&vocabs).Error; err != nil {
		return nil, err
	}
	for _, v := range vocabs {
		found[v.ID] = v
	}
	return found, nil
}

func (s *VocabularyStore) Create(ctx context.Context, vocab *model.Vocabulary) error {
	return s.db.WithContext(ctx).Create(vocab).Error
}

// UpdateOwned applies upd to the entry only if ownerID created it.
func (s *VocabularyStore) UpdateOwned(ctx context.Context, id, ownerID string, upd VocabularyUpdate) (*model.Vocabulary, error) {
	fields := map[string]interface{}{
		"source_language": upd.SourceLanguage,
		"used_languages":  upd.UsedLanguages,
		"definition":      upd.Definition,
		"example":         upd.Example,
	}
	if upd.Translations != nil {
		fields["translations"] = upd.Translations
	}

	result := s.db.WithContext(ctx).Model(&model.Vocabulary{}).
		Where("id = ? AND created_by = ?", id, ownerID).
		Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.FindByID(ctx, id)
}

// DeleteOwned removes the entry only if ownerID created it and returns it.
func (s *VocabularyStore) DeleteOwned(ctx context.Context, id, ownerID string) (*model.Vocabulary, error) {
	var vocab model.Vocabulary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&vocab, "id = ? AND created_by = ?", id, ownerID).Error; err != nil {
			return err
		}
		return tx.Delete(&vocab).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return &vocab, nil
}

func (s *VocabularyStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Vocabulary{}).Count(&count).Error
	return count, err
}

// AttachCreators fills Creator on each entry with one users query.
func (s *VocabularyStore) AttachCreators(ctx context.Context, vocabs []model.Vocabulary) error {
	if len(vocabs) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, v := range vocabs {
		if _, ok := seen[v.CreatedBy]; !ok {
			seen[v.CreatedBy] = struct{}{}
			ids = append(ids, v.CreatedBy)
		}
	}

	var users []model.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return err
	}
	byID := make(map[string]*model.UserSummary, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].Summary()
	}

	for i := range vocabs {
		vocabs[i].Creator = byID[vocabs[i].CreatedBy]
	}
	return nil
}
