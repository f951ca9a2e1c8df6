package models

import "time"

// Layout is a document theme (colors, font, logo placement) referenced by
// offers and invoices via layout_id.
type Layout struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null;unique" json:"name"`
	PrimaryColor string    `gorm:"default:'#1f2937'" json:"primary_color"`
	Font         string    `gorm:"default:'Inter'" json:"font"`
	LogoPosition string    `gorm:"default:'right'" json:"logo_position"`
	IsDefault    bool      `gorm:"not null;default:false" json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
