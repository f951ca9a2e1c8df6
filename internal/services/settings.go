package services

import (
	"errors"

	"github.com/kontor-app/kontor/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SettingsService manages the single company record and its configuration
// blob. The blob is passed through to clients verbatim; only the tax block and
// currency feed server-side computation.
type SettingsService struct{ DB *gorm.DB }

func NewSettingsService(db *gorm.DB) *SettingsService { return &SettingsService{DB: db} }

var ErrNotConfigured = errors.New("company_not_configured")

// Get returns the company record if present, otherwise nil.
func (s *SettingsService) Get() (*models.Company, error) {
	var c models.Company
	err := s.DB.First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Effective returns the active settings, falling back to defaults while the
// company is not configured yet so documents can still be priced.
func (s *SettingsService) Effective() (models.Settings, error) {
	c, err := s.Get()
	if err != nil {
		return models.Settings{}, err
	}
	if c == nil {
		return models.DefaultSettings(), nil
	}
	st := c.Settings.Data()
	if st.Currency == "" {
		st.Currency = "EUR"
	}
	if st.Tax.Mode == "" {
		st.Tax.Mode = models.TaxPerLine
	}
	return st, nil
}

// Update upserts company master data and settings as one unit.
func (s *SettingsService) Update(in models.Company) (*models.Company, error) {
	existing, err := s.Get()
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if in.Settings.Data().Currency == "" {
			in.Settings = datatypes.NewJSONType(models.DefaultSettings())
		}
		if err := s.DB.Create(&in).Error; err != nil {
			return nil, err
		}
		return &in, nil
	}
	in.ID = existing.ID
	in.CreatedAt = existing.CreatedAt
	if err := s.DB.Save(&in).Error; err != nil {
		return nil, err
	}
	return &in, nil
}

// Layouts lists document themes, default first.
func (s *SettingsService) Layouts() ([]models.Layout, error) {
	var ls []models.Layout
	if err := s.DB.Order("is_default desc, name asc").Find(&ls).Error; err != nil {
		return nil, err
	}
	return ls, nil
}

// CreateLayout stores a new document theme. Marking it default clears the
// previous default.
func (s *SettingsService) CreateLayout(l models.Layout) (*models.Layout, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if l.IsDefault {
			if err := tx.Model(&models.Layout{}).Where("is_default = ?", true).Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&l).Error
	})
	if err != nil {
		return nil, err
	}
	return &l, nil
}
