// Package seed loads dictionaries, words and access grants into a store.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"vocab-quiz-service/internal/domain"
)

// Seeder is implemented by every store that can be populated from a fixture.
type Seeder interface {
	SaveDictionary(ctx context.Context, d domain.Dictionary) error
	GrantAccess(ctx context.Context, userID, dictionaryID string) error
	SaveWord(ctx context.Context, w domain.Word) error
}

// Fixture is the on-disk seed format, YAML or JSON.
type Fixture struct {
	Dictionaries []domain.Dictionary     `json:"dictionaries" yaml:"dictionaries"`
	Words        []domain.Word           `json:"words" yaml:"words"`
	Access       []domain.UserDictionary `json:"access" yaml:"access"`
}

// Load reads a fixture; files ending in .json are decoded as JSON, everything else as YAML.
func Load(path string) (Fixture, error) {
	var f Fixture
	data, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &f)
	} else {
		err = yaml.Unmarshal(data, &f)
	}
	if err != nil {
		return f, fmt.Errorf("decode fixture %s: %w", path, err)
	}
	return f, nil
}

// Validate checks that every record carries its identifying fields.
func (f Fixture) Validate() error {
	v := newValidator()
	for i, d := range f.Dictionaries {
		if err := v.Struct(d); err != nil {
			return fmt.Errorf("dictionaries[%d]: %w", i, err)
		}
	}
	for i, w := range f.Words {
		if err := v.Struct(w); err != nil {
			return fmt.Errorf("words[%d]: %w", i, err)
		}
	}
	for i, a := range f.Access {
		if err := v.Struct(a); err != nil {
			return fmt.Errorf("access[%d]: %w", i, err)
		}
	}
	return nil
}

// Apply validates the fixture and writes it through s. Dictionaries go first
// so that foreign keys hold on relational stores.
func Apply(ctx context.Context, s Seeder, f Fixture, log *zap.Logger) error {
	if err := f.Validate(); err != nil {
		return err
	}
	for _, d := range f.Dictionaries {
		if err := s.SaveDictionary(ctx, d); err != nil {
			return fmt.Errorf("seed dictionary %s: %w", d.ID, err)
		}
	}
	for _, w := range f.Words {
		if err := s.SaveWord(ctx, w); err != nil {
			return fmt.Errorf("seed word %s: %w", w.ID, err)
		}
	}
	for _, a := range f.Access {
		if err := s.GrantAccess(ctx, a.UserID, a.DictionaryID); err != nil {
			return fmt.Errorf("seed access %s/%s: %w", a.UserID, a.DictionaryID, err)
		}
	}
	log.Info("seed applied",
		zap.Int("dictionaries", len(f.Dictionaries)),
		zap.Int("words", len(f.Words)),
		zap.Int("access", len(f.Access)))
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidationMapRules(map[string]string{
		"ID":             "required",
		"Name":           "required",
		"SourceLanguage": "required",
		"TargetLanguage": "required",
		"CreatedBy":      "required",
	}, domain.Dictionary{})
	v.RegisterStructValidationMapRules(map[string]string{
		"ID":           "required",
		"DictionaryID": "required",
		"CreatedBy":    "required",
		"Writing":      "required",
		"Translation":  "required",
	}, domain.Word{})
	v.RegisterStructValidationMapRules(map[string]string{
		"UserID":       "required",
		"DictionaryID": "required",
	}, domain.UserDictionary{})
	return v
}
