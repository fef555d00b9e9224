package models

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ProductName is a trimmed, printable name of 1 to 100 characters.
type ProductName string

const (
	minProductNameLength = 1
	maxProductNameLength = 100
)

// NewProductName trims s and checks the length and character rules.
func NewProductName(s string) (ProductName, error) {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if n < minProductNameLength {
		return "", fmt.Errorf("name must be at least %d character", minProductNameLength)
	}
	if n > maxProductNameLength {
		return "", fmt.Errorf("name must not exceed %d characters", maxProductNameLength)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("name must not contain control characters")
		}
	}
	return ProductName(s), nil
}

// String returns the underlying string value.
func (n ProductName) String() string {
	return string(n)
}
