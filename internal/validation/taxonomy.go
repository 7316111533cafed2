package validation

import (
	"stockdesk/internal/domain"
)

type categoryRules struct {
	Name string `validate:"required"`
}

// Category validates a category record before create or update
func Category(c *domain.Category) []FieldError {
	return Check(categoryRules{Name: c.Name})
}

type brandRules struct {
	Name string `validate:"required"`
}

// Brand validates a brand record before create or update
func Brand(b *domain.Brand) []FieldError {
	return Check(brandRules{Name: b.Name})
}

type unitRules struct {
	Name         string  `validate:"required"`
	Abbreviation *string `validate:"omitempty,max=20"`
}

// Unit validates a unit record before create or update
func Unit(u *domain.Unit) []FieldError {
	return Check(unitRules{Name: u.Name, Abbreviation: u.Abbreviation})
}
