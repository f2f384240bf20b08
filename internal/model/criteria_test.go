package model

import (
	"errors"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestValidate(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		modify func(c *SearchCriteria)
		want   error
	}{
		{"defaults are valid", func(c *SearchCriteria) {}, nil},
		{"empty keyword", func(c *SearchCriteria) { c.Keyword = "" }, ErrKeywordRequired},
		{"blank keyword", func(c *SearchCriteria) { c.Keyword = "   " }, ErrKeywordRequired},
		{"zero max results", func(c *SearchCriteria) { c.MaxResults = 0 }, ErrMaxResultsRange},
		{"too many max results", func(c *SearchCriteria) { c.MaxResults = 501 }, ErrMaxResultsRange},
		{"max results lower bound", func(c *SearchCriteria) { c.MaxResults = 1 }, nil},
		{"max results upper bound", func(c *SearchCriteria) { c.MaxResults = 500 }, nil},
		{"negative min views", func(c *SearchCriteria) { c.MinViewCount = Int64Ptr(-1) }, ErrMinViewCountNegative},
		{"min above max", func(c *SearchCriteria) {
			c.MinViewCount = Int64Ptr(100)
			c.MaxViewCount = Int64Ptr(10)
		}, ErrViewCountRange},
		{"min equals max", func(c *SearchCriteria) {
			c.MinViewCount = Int64Ptr(10)
			c.MaxViewCount = Int64Ptr(10)
		}, nil},
		{"after later than before", func(c *SearchCriteria) {
			c.PublishedAfter = TimePtr(feb)
			c.PublishedBefore = TimePtr(jan)
		}, ErrPublishedRange},
		{"after equals before", func(c *SearchCriteria) {
			c.PublishedAfter = TimePtr(jan)
			c.PublishedBefore = TimePtr(jan)
		}, nil},
		{"unknown order", func(c *SearchCriteria) { c.Order = "popularity" }, ErrInvalidOrder},
		{"negative max views", func(c *SearchCriteria) { c.MaxViewCount = Int64Ptr(-5) }, ErrMaxViewCountNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewSearchCriteria("golang")
			tt.modify(c)
			err := c.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidatePrecedence(t *testing.T) {
	c := &SearchCriteria{
		Keyword:      "",
		MaxResults:   0,
		MinViewCount: Int64Ptr(-1),
		Order:        "bogus",
	}
	if err := c.Validate(); !errors.Is(err, ErrKeywordRequired) {
		t.Fatalf("Validate() = %v, want %v", err, ErrKeywordRequired)
	}

	c.Keyword = "go"
	if err := c.Validate(); !errors.Is(err, ErrMaxResultsRange) {
		t.Fatalf("Validate() = %v, want %v", err, ErrMaxResultsRange)
	}

	c.MaxResults = 10
	if err := c.Validate(); !errors.Is(err, ErrMinViewCountNegative) {
		t.Fatalf("Validate() = %v, want %v", err, ErrMinViewCountNegative)
	}

	c.MinViewCount = nil
	if err := c.Validate(); !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("Validate() = %v, want %v", err, ErrInvalidOrder)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	var verr *ValidationError
	err := NewSearchCriteria("").Validate()
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Field != "keyword" {
		t.Errorf("Field = %q, want %q", verr.Field, "keyword")
	}
	if err.Error() == "" {
		t.Error("expected a descriptive message")
	}
}

func TestParseVideoType(t *testing.T) {
	tests := []struct {
		input   string
		want    VideoType
		wantErr bool
	}{
		{"", VideoTypeAll, false},
		{"all", VideoTypeAll, false},
		{"SHORT", VideoTypeShort, false},
		{" normal ", VideoTypeNormal, false},
		{"long", "", true},
	}

	for _, tt := range tests {
		got, err := ParseVideoType(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseVideoType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseVideoType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("published_after", "2024-03-15")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	if want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("ParseDate = %v, want %v", got, want)
	}

	_, err = ParseDate("published_after", "15/03/2024")
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "published_after" {
		t.Errorf("ParseDate bad input error = %v, want ValidationError on published_after", err)
	}
}

func TestClone(t *testing.T) {
	c := NewSearchCriteria("go")
	c.MinViewCount = Int64Ptr(10)
	c.PublishedAfter = TimePtr(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	cp := c.Clone()
	*c.MinViewCount = 99
	*c.PublishedAfter = time.Time{}

	if *cp.MinViewCount != 10 {
		t.Errorf("clone MinViewCount = %d, want 10", *cp.MinViewCount)
	}
	if cp.PublishedAfter.IsZero() {
		t.Error("clone PublishedAfter shares memory with the original")
	}
}

// Property: min > max always fails validation, min <= max never fails on the range rule
func TestProperty_ViewCountRangeRule(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("min greater than max is rejected", prop.ForAll(
		func(min, delta int64) bool {
			c := NewSearchCriteria("go")
			c.MinViewCount = Int64Ptr(min + delta)
			c.MaxViewCount = Int64Ptr(min)
			return errors.Is(c.Validate(), ErrViewCountRange)
		},
		gen.Int64Range(0, 1_000_000_000),
		gen.Int64Range(1, 1_000_000),
	))

	properties.Property("min not greater than max passes the range rule", prop.ForAll(
		func(min, delta int64) bool {
			c := NewSearchCriteria("go")
			c.MinViewCount = Int64Ptr(min)
			c.MaxViewCount = Int64Ptr(min + delta)
			return !errors.Is(c.Validate(), ErrViewCountRange)
		},
		gen.Int64Range(0, 1_000_000_000),
		gen.Int64Range(0, 1_000_000),
	))

	properties.TestingRun(t)
}

// Property: max results outside [1,500] always fails, inside never fails on that rule
func TestProperty_MaxResultsRule(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("max results below range is rejected", prop.ForAll(
		func(n int) bool {
			c := NewSearchCriteria("go")
			c.MaxResults = n
			return errors.Is(c.Validate(), ErrMaxResultsRange)
		},
		gen.IntRange(-10_000, 0),
	))

	properties.Property("max results above range is rejected", prop.ForAll(
		func(n int) bool {
			c := NewSearchCriteria("go")
			c.MaxResults = n
			return errors.Is(c.Validate(), ErrMaxResultsRange)
		},
		gen.IntRange(501, 100_000),
	))

	properties.Property("max results inside range passes", prop.ForAll(
		func(n int) bool {
			c := NewSearchCriteria("go")
			c.MaxResults = n
			return c.Validate() == nil
		},
		gen.IntRange(1, 500),
	))

	properties.TestingRun(t)
}
