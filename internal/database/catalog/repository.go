// Package catalog provides database operations for verses and languages.
//
// This package implements the scripture.Repository interface used by the
// in-memory Library.
//
// # Usage
//
//	repo := catalog.NewRepository(db)
//	library, err := scripture.LoadLibrary(ctx, repo)
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mrlokans/shloka/internal/entities"
	"github.com/mrlokans/shloka/internal/scripture"
)

// Repository handles all verse and language database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LoadLanguages returns languages in catalog order.
func (r *Repository) LoadLanguages(ctx context.Context) ([]scripture.Language, error) {
	var rows []entities.Language
	if err := r.db.WithContext(ctx).Order("position, id").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]scripture.Language, len(rows))
	for i, row := range rows {
		out[i] = scripture.Language{
			Code:       row.Code,
			Name:       row.Name,
			NativeName: row.NativeName,
			Enabled:    row.Enabled,
			IsDefault:  row.IsDefault,
		}
	}
	return out, nil
}

// SaveLanguages replaces the stored language set in one transaction.
func (r *Repository) SaveLanguages(ctx context.Context, languages []scripture.Language) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		codes := make([]string, len(languages))
		for i, lang := range languages {
			codes[i] = lang.Code
		}

		remove := tx.Model(&entities.Language{})
		if len(codes) > 0 {
			remove = remove.Where("code NOT IN ?", codes)
		} else {
			remove = remove.Where("1 = 1")
		}
		if err := remove.Delete(&entities.Language{}).Error; err != nil {
			return fmt.Errorf("failed to delete languages: %w", err)
		}

		for i, lang := range languages {
			var row entities.Language
			err := tx.Where("code = ?", lang.Code).First(&row).Error
			if err != nil && err != gorm.ErrRecordNotFound {
				return err
			}
			row.Code = lang.Code
			row.Name = lang.Name
			row.NativeName = lang.NativeName
			row.Enabled = lang.Enabled
			row.IsDefault = lang.IsDefault
			row.Position = i
			if err := tx.Save(&row).Error; err != nil {
				return fmt.Errorf("failed to save language %s: %w", lang.Code, err)
			}
		}
		return nil
	})
}

// LoadVerses returns verses in catalog order.
func (r *Repository) LoadVerses(ctx context.Context) ([]scripture.Verse, error) {
	var rows []entities.Verse
	if err := r.db.WithContext(ctx).Order("position, id").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]scripture.Verse, 0, len(rows))
	for _, row := range rows {
		v, err := toVerse(row)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// CreateVerse stores a verse at the end of the catalog.
func (r *Repository) CreateVerse(ctx context.Context, v scripture.Verse) error {
	translations, err := json.Marshal(v.Translations)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPosition sql.NullInt64
		if err := tx.Model(&entities.Verse{}).Select("MAX(position)").Row().Scan(&maxPosition); err != nil {
			return err
		}
		position := 0
		if maxPosition.Valid {
			position = int(maxPosition.Int64) + 1
		}

		row := entities.Verse{
			Chapter:         v.Ref.Chapter,
			Number:          v.Ref.Verse,
			Position:        position,
			Sanskrit:        v.Sanskrit,
			Transliteration: v.Transliteration,
			Translations:    datatypes.JSON(translations),
			Meaning:         v.Meaning,
		}
		return tx.Create(&row).Error
	})
}

// UpdateVerse overwrites the editable fields of a stored verse.
func (r *Repository) UpdateVerse(ctx context.Context, v scripture.Verse) error {
	translations, err := json.Marshal(v.Translations)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&entities.Verse{}).
		Where("chapter = ? AND verse = ?", v.Ref.Chapter, v.Ref.Verse).
		Updates(map[string]interface{}{
			"translations": datatypes.JSON(translations),
			"meaning":      v.Meaning,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("verse %s: %w", v.Ref, scripture.ErrNotFound)
	}
	return nil
}

func (r *Repository) DeleteVerse(ctx context.Context, ref scripture.Ref) error {
	result := r.db.WithContext(ctx).
		Where("chapter = ? AND verse = ?", ref.Chapter, ref.Verse).
		Delete(&entities.Verse{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("verse %s: %w", ref, scripture.ErrNotFound)
	}
	return nil
}

func toVerse(row entities.Verse) (scripture.Verse, error) {
	translations := map[string]string{}
	if len(row.Translations) > 0 {
		if err := json.Unmarshal(row.Translations, &translations); err != nil {
			return scripture.Verse{}, fmt.Errorf("verse %d.%d has invalid translations: %w", row.Chapter, row.Number, err)
		}
	}
	return scripture.Verse{
		Ref:             scripture.Ref{Chapter: row.Chapter, Verse: row.Number},
		Sanskrit:        row.Sanskrit,
		Transliteration: row.Transliteration,
		Translations:    translations,
		Meaning:         row.Meaning,
	}, nil
}
