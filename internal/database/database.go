package database

import (
	"context"
	"fmt"

	"github.com/vocabuilder/api/internal/config"
	"github.com/vocabuilder/api/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if !cfg.IsProduction() {
		level = logger.Info
	}
	return Open(cfg.DatabaseDriver, cfg.DatabaseURL, level)
}

// Open opens a gorm connection for driver ("postgres" or "sqlite").
func Open(driver, dsn string, level logger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		// a single connection keeps in-memory databases shared and serializes writers
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Language{},
		&model.Vocabulary{},
		&model.QuizResult{},
	)
}

// SeedLanguages inserts the default language registry when it is empty.
// Languages are attributed to the first admin, or the first user if there is none.
func SeedLanguages(ctx context.Context, db *gorm.DB) (int, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&model.Language{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	var owner model.User
	if err := db.WithContext(ctx).Where("role = ?", model.RoleAdmin).Order("created_at ASC").Limit(1).Find(&owner).Error; err != nil {
		return 0, err
	}
	if owner.ID == "" {
		if err := db.WithContext(ctx).Order("created_at ASC").Limit(1).Find(&owner).Error; err != nil {
			return 0, err
		}
	}

	languages := make([]model.Language, len(model.DefaultLanguages))
	copy(languages, model.DefaultLanguages)
	for i := range languages {
		languages[i].AddedBy = owner.ID
	}

	if err := db.WithContext(ctx).Create(&languages).Error; err != nil {
		return 0, err
	}
	return len(languages), nil
}
