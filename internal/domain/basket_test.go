package domain

import (
	"errors"
	"testing"
)

func validLine() *BasketLine {
	return &BasketLine{
		TransactionID: "tx1",
		RespondentID:  "Ontario_1",
		Region:        "Ontario",
		Retailer:      "Metro",
		Item:          "Milk",
		Category:      "Dairy",
		Quantity:      3,
		UnitPrice:     3.14,
		TotalPrice:    9.42,
		Loyalty:       Bool(true),
	}
}

func TestBasketLine_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BasketLine)
		wantErr bool
	}{
		{"valid", func(*BasketLine) {}, false},
		{"free item", func(l *BasketLine) { l.UnitPrice, l.TotalPrice = 0, 0 }, false},
		{"zero quantity", func(l *BasketLine) { l.Quantity = 0 }, true},
		{"negative price", func(l *BasketLine) { l.UnitPrice, l.TotalPrice = -1, -3 }, true},
		{"total mismatch", func(l *BasketLine) { l.TotalPrice = 9.43 }, true},
		{"missing transaction", func(l *BasketLine) { l.TransactionID = "" }, true},
		{"missing item", func(l *BasketLine) { l.Item = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validLine()
			tt.mutate(l)
			err := l.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidLine) {
				t.Errorf("expected ErrInvalidLine, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateLines_TransactionConsistency(t *testing.T) {
	a := validLine()
	b := validLine()
	b.Item = "Bread"

	if err := ValidateLines([]*BasketLine{a, b}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b.Retailer = "Sobeys"
	if err := ValidateLines([]*BasketLine{a, b}); !errors.Is(err, ErrInvalidLine) {
		t.Errorf("expected ErrInvalidLine for mixed retailers, got %v", err)
	}

	b.Retailer = a.Retailer
	b.RespondentID = "Ontario_2"
	if err := ValidateLines([]*BasketLine{a, b}); !errors.Is(err, ErrInvalidLine) {
		t.Errorf("expected ErrInvalidLine for mixed respondents, got %v", err)
	}

	if err := ValidateLines([]*BasketLine{a, nil}); !errors.Is(err, ErrInvalidLine) {
		t.Errorf("expected ErrInvalidLine for nil line, got %v", err)
	}
}

func TestBasketLine_LoyaltyCohorts(t *testing.T) {
	tests := []struct {
		name         string
		loyalty      *bool
		wantLoyal    bool
		wantNonLoyal bool
	}{
		{"member", Bool(true), true, false},
		{"non-member", Bool(false), false, true},
		{"unknown", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &BasketLine{Loyalty: tt.loyalty}
			if l.IsLoyal() != tt.wantLoyal || l.IsNonLoyal() != tt.wantNonLoyal {
				t.Errorf("IsLoyal=%v IsNonLoyal=%v", l.IsLoyal(), l.IsNonLoyal())
			}
		})
	}
}

func TestRoundCents(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{3.141, 3.14},
		{2.675000001, 2.68},
		{0.004, 0},
		{10, 10},
	}
	for _, tt := range tests {
		if got := RoundCents(tt.in); got != tt.want {
			t.Errorf("RoundCents(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
