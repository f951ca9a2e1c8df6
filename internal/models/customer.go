package models

import "time"

// Customer entity
type Customer struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"not null;index" json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Street        string `json:"street"`
	PostalCode    string `json:"postal_code"`
	City          string `json:"city"`
	Country       string `gorm:"default:'DE'" json:"country"`
	// USt-IdNr. des Kunden (innergemeinschaftliche Lieferungen)
	VATID     string    `gorm:"index" json:"vat_id"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
