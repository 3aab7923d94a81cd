package specification

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByID filters by ID
type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// ByClientKey scopes history queries to one caller
type ByClientKey struct {
	ClientKey string
}

func (s ByClientKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("client_key = ?", s.ClientKey)
}

// BySpecialty filters reports by classified specialty
type BySpecialty struct {
	Specialty string
}

func (s BySpecialty) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("specialty = ?", s.Specialty)
}

// OrderBy applies ordering
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

// Pagination
type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset(s.Offset)
}
