package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Translations maps a language code ("en", "de", ...) to the entry's text in
// that language. It is stored as a JSON object.
type Translations map[string]string

// Value implements driver.Valuer for JSON serialization
func (t Translations) Value() (driver.Value, error) {
	if t == nil {
		return "{}", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner. Arrays and other non-object JSON are rejected.
func (t *Translations) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*t = Translations{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal Translations: unsupported type %T", value)
	}

	m := Translations{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("failed to unmarshal Translations: %w", err)
	}
	if m == nil {
		m = Translations{}
	}
	*t = m
	return nil
}

func (Translations) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return jsonColumnType(db)
}

// Text returns the trimmed translation for code and whether it is usable.
func (t Translations) Text(code string) (string, bool) {
	text := strings.TrimSpace(t[code])
	return text, text != ""
}

// Codes returns the sorted language codes that carry non-empty text.
func (t Translations) Codes() []string {
	codes := make([]string, 0, len(t))
	for code := range t {
		if _, ok := t.Text(code); ok {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}

// LanguageCodes is a text[] column on postgres and a plain text column elsewhere,
// both encoded in postgres array literal form.
type LanguageCodes pq.StringArray

func (l LanguageCodes) Value() (driver.Value, error) {
	return pq.StringArray(l).Value()
}

func (l *LanguageCodes) Scan(value interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(value); err != nil {
		return err
	}
	*l = LanguageCodes(arr)
	return nil
}

// GormDataType keeps the schema parser from treating the slice as a relation.
func (LanguageCodes) GormDataType() string {
	return "text"
}

func (LanguageCodes) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

type Vocabulary struct {
	ID             string        `gorm:"primaryKey;size:36" json:"id"`
	Translations   Translations  `gorm:"not null" json:"translations"`
	SourceLanguage string        `gorm:"not null;size:10;default:'en'" json:"sourceLanguage"`
	UsedLanguages  LanguageCodes `json:"usedLanguages"`
	Definition     string        `gorm:"type:text" json:"definition"`
	Example        string        `gorm:"type:text" json:"example"`
	CreatedBy      string        `gorm:"not null;size:36;index" json:"createdBy"`
	Creator        *UserSummary  `gorm:"-" json:"creator,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

func (Vocabulary) TableName() string {
	return "vocabularies"
}

func (v *Vocabulary) BeforeCreate(*gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.SourceLanguage == "" {
		v.SourceLanguage = DefaultSourceLanguage
	}
	if v.UsedLanguages == nil {
		v.UsedLanguages = LanguageCodes{"en", "de"}
	}
	if v.Translations == nil {
		return errors.New("translations must be a valid object")
	}
	return nil
}

const DefaultSourceLanguage = "en"

func jsonColumnType(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}
