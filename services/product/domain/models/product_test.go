package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewProduct(t *testing.T) {
	d := Details{Name: "Lamp", Category: "lighting", Price: 4500, Available: true}

	before := time.Now().UTC()
	p := NewProduct(d)
	after := time.Now().UTC()

	if p.ID == uuid.Nil {
		t.Fatal("expected non-zero UUID for ID")
	}
	if p.Name != d.Name || p.Price != d.Price || !p.Available || p.Category != "lighting" {
		t.Fatalf("details not applied: %+v", p)
	}
	if p.CreatedAt.Before(before) || p.CreatedAt.After(after) {
		t.Fatalf("CreatedAt %v not between %v and %v", p.CreatedAt, before, after)
	}
	if !p.UpdatedAt.Equal(p.CreatedAt) {
		t.Fatalf("expected UpdatedAt == CreatedAt on creation")
	}

	other := NewProduct(d)
	if other.ID == p.ID {
		t.Fatal("expected unique IDs, got identical")
	}
}

func TestProduct_Replace(t *testing.T) {
	p := NewProduct(Details{Name: "Lamp", Price: 4500, Available: true})
	id, created := p.ID, p.CreatedAt

	p.Replace(Details{Name: "Desk Lamp", Description: "brass", Price: 5200})

	if p.ID != id || !p.CreatedAt.Equal(created) {
		t.Fatal("identity and creation time must survive Replace")
	}
	if p.Name != "Desk Lamp" || p.Description != "brass" || p.Price != 5200 || p.Available {
		t.Fatalf("unexpected product after Replace: %+v", p)
	}
	if p.UpdatedAt.Before(created) {
		t.Fatal("UpdatedAt must not go backwards")
	}
}
