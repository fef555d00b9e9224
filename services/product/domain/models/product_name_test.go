package models

import (
	"strings"
	"testing"
)

func TestNewProductName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"single character", "a", "a", false},
		{"normal name", "Espresso Cup", "Espresso Cup", false},
		{"trimmed", "  Tea Pot \n", "Tea Pot", false},
		{"100 characters", strings.Repeat("x", 100), strings.Repeat("x", 100), false},
		{"100 multibyte characters", strings.Repeat("é", 100), strings.Repeat("é", 100), false},
		{"empty", "", "", true},
		{"only whitespace", "   ", "", true},
		{"101 characters", strings.Repeat("x", 101), "", true},
		{"control character", "Tea\x00Pot", "", true},
		{"tab inside", "Tea\tPot", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewProductName(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewProductName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if n.String() != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, n.String())
			}
		})
	}
}

func TestNewPrice(t *testing.T) {
	for _, cents := range []int64{0, 1, 1999, 1<<53 - 1} {
		p, err := NewPrice(cents)
		if err != nil {
			t.Fatalf("NewPrice(%d): unexpected error %v", cents, err)
		}
		if p.Cents() != cents {
			t.Fatalf("expected %d, got %d", cents, p.Cents())
		}
	}
	for _, cents := range []int64{-1, 1 << 53} {
		if _, err := NewPrice(cents); err == nil {
			t.Fatalf("NewPrice(%d): expected error", cents)
		}
	}
}
