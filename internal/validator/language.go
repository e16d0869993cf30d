package validator

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// LanguageCodesTag validates that a string, a []string or the keys of a
// map[string]string are registered language codes. It is read from `validate`
// struct tags by LanguageValidator.Struct.
const LanguageCodesTag = "langcodes"

// CodeSource lists every registered language code, active or not.
type CodeSource interface {
	Codes(ctx context.Context) ([]string, error)
}

// LanguageValidator holds the set of registered language codes. An empty set
// accepts every code so a fresh database is usable before the registry is seeded.
// Each LanguageValidator owns its validation engine, so validators with
// different code sets never share cached tag functions.
type LanguageValidator struct {
	codes    map[string]struct{}
	mu       sync.RWMutex
	validate *validator.Validate
}

func NewLanguageValidator(codes ...string) *LanguageValidator {
	v := &LanguageValidator{validate: validator.New()}
	// the tag name is a constant and the function non-nil, so this cannot fail
	_ = v.validate.RegisterValidation(LanguageCodesTag, v.validateField)
	v.Set(codes)
	return v
}

func (v *LanguageValidator) Set(codes []string) {
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		if code = normalizeCode(code); code != "" {
			set[code] = struct{}{}
		}
	}

	v.mu.Lock()
	v.codes = set
	v.mu.Unlock()
}

// Load replaces the code set with the current registry contents.
func (v *LanguageValidator) Load(ctx context.Context, src CodeSource) (int, error) {
	codes, err := src.Codes(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load language codes: %w", err)
	}
	v.Set(codes)
	return len(codes), nil
}

func (v *LanguageValidator) IsRegistered(code string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if len(v.codes) == 0 {
		return true
	}
	_, ok := v.codes[normalizeCode(code)]
	return ok
}

// UnknownCodes returns the sorted keys of translations that are not registered.
func (v *LanguageValidator) UnknownCodes(translations map[string]string) []string {
	var unknown []string
	for code := range translations {
		if !v.IsRegistered(code) {
			unknown = append(unknown, code)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// Struct checks the `validate` tags of s against the current code set.
func (v *LanguageValidator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

func (v *LanguageValidator) validateField(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		return v.IsRegistered(field.String())
	case reflect.Slice, reflect.Array:
		for i := 0; i < field.Len(); i++ {
			if field.Index(i).Kind() != reflect.String || !v.IsRegistered(field.Index(i).String()) {
				return false
			}
		}
		return true
	case reflect.Map:
		for _, key := range field.MapKeys() {
			if key.Kind() != reflect.String || !v.IsRegistered(key.String()) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// FormatErrors turns binding errors into a single readable message.
func FormatErrors(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		switch e.Tag() {
		case LanguageCodesTag:
			msgs = append(msgs, fmt.Sprintf("%s contains an unknown language code", e.Field()))
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", e.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("Field: %s, Tag: %s, Param: %s", e.Field(), e.Tag(), e.Param()))
		}
	}
	return strings.Join(msgs, "; ")
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
