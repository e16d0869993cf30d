package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vocabuilder/api/internal/config"
	"github.com/vocabuilder/api/internal/database"
	"github.com/vocabuilder/api/internal/filter"
	"github.com/vocabuilder/api/internal/logging"
	"github.com/vocabuilder/api/internal/model"
	"github.com/vocabuilder/api/internal/store"
	"github.com/vocabuilder/api/internal/validator"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeds the language registry and, optionally, vocabulary from a CSV file
// whose header names language codes, e.g. "en,de,fr,definition,example".
func main() {
	filePath := flag.String("file", "", "CSV file with vocabulary to import (optional)")
	ownerEmail := flag.String("owner", "", "Email of the user that owns imported entries (default: first admin)")
	batchSize := flag.Int("batch", 500, "Batch size for inserts")
	flag.Parse()

	cfg := config.Load()
	log, err := logging.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	ctx := context.Background()
	n, err := database.SeedLanguages(ctx, db)
	if err != nil {
		log.Fatal("failed to seed languages", zap.Error(err))
	}
	log.Info("languages seeded", zap.Int("inserted", n))

	if *filePath == "" {
		return
	}

	owner, err := resolveOwner(ctx, db, *ownerEmail)
	if err != nil {
		log.Fatal("failed to resolve owner", zap.Error(err))
	}
	if owner == "" {
		log.Warn("no users yet, imported entries have no owner")
	}

	codes := validator.NewLanguageValidator()
	if _, err := codes.Load(ctx, store.NewLanguageStore(db)); err != nil {
		log.Fatal("failed to load language codes", zap.Error(err))
	}

	file, err := os.Open(*filePath)
	if err != nil {
		log.Fatal("failed to open vocabulary file", zap.Error(err))
	}
	defer file.Close()

	vocabs, skipped, err := readVocabulary(file, codes, owner)
	if err != nil {
		log.Fatal("failed to read vocabulary file", zap.Error(err))
	}

	if len(vocabs) > 0 {
		if err := db.WithContext(ctx).CreateInBatches(vocabs, *batchSize).Error; err != nil {
			log.Fatal("failed to insert vocabulary", zap.Error(err))
		}
	}
	log.Info("vocabulary seeded", zap.Int("inserted", len(vocabs)), zap.Int("skipped", skipped))
}

// resolveOwner returns the id of the user with email, or of the first admin
// (then first user) when email is empty. An empty database yields "".
func resolveOwner(ctx context.Context, db *gorm.DB, email string) (string, error) {
	if email != "" {
		user, err := store.NewUserStore(db).FindByEmail(ctx, strings.ToLower(email))
		if err != nil {
			return "", fmt.Errorf("owner %s: %w", email, err)
		}
		return user.ID, nil
	}

	var owner model.User
	if err := db.WithContext(ctx).Where("role = ?", model.RoleAdmin).Order("created_at ASC").Limit(1).Find(&owner).Error; err != nil {
		return "", err
	}
	if owner.ID == "" {
		if err := db.WithContext(ctx).Order("created_at ASC").Limit(1).Find(&owner).Error; err != nil {
			return "", err
		}
	}
	return owner.ID, nil
}

// readVocabulary parses the CSV. Rows without any usable translation are
// skipped; columns for unregistered language codes are an error.
func readVocabulary(r io.Reader, codes *validator.LanguageValidator, owner string) ([]model.Vocabulary, int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}
	for _, col := range header {
		if col != "definition" && col != "example" && !codes.IsRegistered(col) {
			return nil, 0, fmt.Errorf("unknown language column %q", col)
		}
	}

	var (
		vocabs  []model.Vocabulary
		skipped int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		vocab := model.Vocabulary{CreatedBy: owner}
		raw := map[string]string{}
		for i, value := range record {
			if i >= len(header) {
				break
			}
			switch header[i] {
			case "definition":
				vocab.Definition = strings.TrimSpace(value)
			case "example":
				vocab.Example = strings.TrimSpace(value)
			default:
				raw[header[i]] = value
			}
		}

		vocab.Translations = filter.CleanTranslations(raw)
		if len(vocab.Translations) == 0 {
			skipped++
			continue
		}
		vocab.UsedLanguages = model.LanguageCodes(vocab.Translations.Codes())
		vocabs = append(vocabs, vocab)
	}
	return vocabs, skipped, nil
}
