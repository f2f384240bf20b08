package model

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestParseVideoID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "dQw4w9WgXcQ", false},
		{"with dash and underscore", "a-b_c-d_e-f", false},
		{"too short", "dQw4w9WgXc", true},
		{"too long", "dQw4w9WgXcQQ", true},
		{"invalid char", "dQw4w9WgXc!", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseVideoID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVideoID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidVideoID) {
				t.Errorf("expected ErrInvalidVideoID, got %v", err)
			}
			if err == nil && id.URL() != "https://www.youtube.com/watch?v="+tt.input {
				t.Errorf("URL() = %q", id.URL())
			}
		})
	}
}

func TestParseChannelID(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"UC_x5XG1OV2P6uZZ5FSM9Ttw", false},
		{"UX_x5XG1OV2P6uZZ5FSM9Ttw", true},
		{"UC_x5XG1OV2P6uZZ5FSM9Tt", true},
		{"", true},
	}

	for _, tt := range tests {
		id, err := ParseChannelID(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseChannelID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err == nil && id.URL() != "https://www.youtube.com/channel/"+tt.input {
			t.Errorf("URL() = %q", id.URL())
		}
	}
}

// Property: any 11-character string over the id alphabet is accepted
func TestProperty_VideoIDAlphabet(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("11 chars of [A-Za-z0-9_-] parse", prop.ForAll(
		func(s string) bool {
			_, err := ParseVideoID(s)
			return err == nil
		},
		gen.RegexMatch(`^[A-Za-z0-9_-]{11}$`),
	))

	properties.TestingRun(t)
}

func TestViewCountRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max *int64
		views    uint64
		expected bool
	}{
		{"open range", nil, nil, 42, true},
		{"at min", Int64Ptr(10), nil, 10, true},
		{"below min", Int64Ptr(10), nil, 9, false},
		{"at max", nil, Int64Ptr(10), 10, true},
		{"above max", nil, Int64Ptr(10), 11, false},
		{"inside", Int64Ptr(5), Int64Ptr(10), 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewViewCountRange(tt.min, tt.max)
			if err != nil {
				t.Fatalf("NewViewCountRange() error = %v", err)
			}
			if got := r.Contains(tt.views); got != tt.expected {
				t.Errorf("Contains(%d) = %v, want %v", tt.views, got, tt.expected)
			}
		})
	}

	unchecked := []ViewCountRange{
		{Min: Int64Ptr(-1)},
		{Max: Int64Ptr(-1)},
		{Min: Int64Ptr(-5), Max: Int64Ptr(-1)},
	}
	for _, r := range unchecked {
		if !r.Contains(0) || !r.Contains(1000) {
			t.Errorf("negative bounds should be ignored on both sides: %v/%v", r.Min, r.Max)
		}
	}

	if _, err := NewViewCountRange(Int64Ptr(10), Int64Ptr(5)); !errors.Is(err, ErrViewCountRange) {
		t.Errorf("expected ErrViewCountRange, got %v", err)
	}
	if _, err := NewViewCountRange(nil, Int64Ptr(-1)); !errors.Is(err, ErrMaxViewCountNegative) {
		t.Errorf("expected ErrMaxViewCountNegative, got %v", err)
	}
}
