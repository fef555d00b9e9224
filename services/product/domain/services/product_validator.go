// Package services contains stateless domain services for the product
// bounded context. They depend on nothing but the domain layer.
package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ghuser/catalog/services/product/domain/models"
)

const maxDescriptionLength = 2000

var categoryPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidateName enforces rules beyond the ProductName constructor: no
// consecutive spaces.
func ValidateName(name models.ProductName) error {
	if strings.Contains(name.String(), "  ") {
		return fmt.Errorf("name must not contain consecutive spaces")
	}
	return nil
}

// ValidateCategory accepts an empty category or a lowercase slug of at most
// 50 characters, e.g. "kitchen" or "garden-tools".
func ValidateCategory(category string) error {
	if category == "" {
		return nil
	}
	if len(category) > 50 || !categoryPattern.MatchString(category) {
		return fmt.Errorf("category must be a lowercase slug of at most 50 characters")
	}
	return nil
}

// ValidateProduct checks a fully constructed Product before it is persisted.
func ValidateProduct(p *models.Product) error {
	if p == nil {
		return fmt.Errorf("product cannot be nil")
	}
	if p.ID == uuid.Nil {
		return fmt.Errorf("id must be set")
	}
	if err := ValidateName(p.Name); err != nil {
		return err
	}
	if err := ValidateCategory(p.Category); err != nil {
		return err
	}
	if utf8.RuneCountInString(p.Description) > maxDescriptionLength {
		return fmt.Errorf("description must not exceed %d characters", maxDescriptionLength)
	}
	if p.UpdatedAt.Before(p.CreatedAt) {
		return fmt.Errorf("updated_at must not precede created_at")
	}
	return nil
}
