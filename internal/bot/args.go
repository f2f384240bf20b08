package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tomomira/youtube-video-analyzer/internal/model"
	"github.com/tomomira/youtube-video-analyzer/internal/search"
)

// Search argument keys. Tokens without a known key= prefix form the keyword.
const (
	argMin    = "min"
	argMax    = "max"
	argType   = "type"
	argLimit  = "limit"
	argOrder  = "order"
	argAfter  = "after"
	argBefore = "before"
	argRegion = "region"
	argLang   = "lang"
)

// ParseSearchArgs builds criteria from "/search" arguments such as
// "golang tutorial min=1000 type=normal limit=20", starting from a copy of base
// (package defaults when nil). The criteria are not validated.
func ParseSearchArgs(base *model.SearchCriteria, args string) (*model.SearchCriteria, error) {
	var words []string
	c := model.NewSearchCriteria("")
	if base != nil {
		c = base.Clone()
	}

	for _, token := range strings.Fields(args) {
		key, value, ok := splitArg(token)
		if !ok {
			words = append(words, token)
			continue
		}
		if err := applySearchArg(c, key, value); err != nil {
			return nil, err
		}
	}

	c.Keyword = strings.Join(words, " ")
	return c, nil
}

// FilterArgs are the client-side filters of "/filter"
type FilterArgs struct {
	Min  *int64
	Max  *int64
	Type model.VideoType
}

// ParseFilterArgs parses "min=", "max=" and "type=" tokens
func ParseFilterArgs(args string) (*FilterArgs, error) {
	f := &FilterArgs{Type: model.VideoTypeAll}
	for _, token := range strings.Fields(args) {
		key, value, ok := splitArg(token)
		if !ok {
			return nil, fmt.Errorf("unexpected argument %q, use key=value", token)
		}
		switch key {
		case argMin:
			n, err := parseCount(key, value)
			if err != nil {
				return nil, err
			}
			f.Min = n
		case argMax:
			n, err := parseCount(key, value)
			if err != nil {
				return nil, err
			}
			f.Max = n
		case argType:
			t, err := model.ParseVideoType(value)
			if err != nil {
				return nil, err
			}
			f.Type = t
		default:
			return nil, fmt.Errorf("unknown filter %q", key)
		}
	}
	if _, err := model.NewViewCountRange(f.Min, f.Max); err != nil {
		return nil, err
	}
	return f, nil
}

// ParseSortArgs parses "<key> [asc|desc]"; the direction defaults to descending
func ParseSortArgs(args string) (key string, descending bool, err error) {
	fields := strings.Fields(strings.ToLower(args))
	if len(fields) == 0 || len(fields) > 2 {
		return "", false, fmt.Errorf("usage: /sort views|likes|published|duration [asc|desc]")
	}

	key = fields[0]
	switch key {
	case search.SortKeyViews, search.SortKeyLikes, search.SortKeyPublished, search.SortKeyDuration:
	default:
		return "", false, fmt.Errorf("unknown sort key %q", key)
	}

	descending = true
	if len(fields) == 2 {
		switch fields[1] {
		case "asc":
			descending = false
		case "desc":
		default:
			return "", false, fmt.Errorf("unknown sort direction %q", fields[1])
		}
	}
	return key, descending, nil
}

func applySearchArg(c *model.SearchCriteria, key, value string) error {
	switch key {
	case argMin:
		n, err := parseCount(key, value)
		if err != nil {
			return err
		}
		c.MinViewCount = n
	case argMax:
		n, err := parseCount(key, value)
		if err != nil {
			return err
		}
		c.MaxViewCount = n
	case argType:
		t, err := model.ParseVideoType(value)
		if err != nil {
			return err
		}
		c.VideoType = t
	case argLimit:
		n, err := strconv.Atoi(value)
		if err != nil {
			return &model.ValidationError{Field: "max_results", Message: "limit must be a number"}
		}
		c.MaxResults = n
	case argOrder:
		c.Order = value
	case argAfter:
		t, err := model.ParseDate("published_after", value)
		if err != nil {
			return err
		}
		c.PublishedAfter = t
	case argBefore:
		t, err := model.ParseDate("published_before", value)
		if err != nil {
			return err
		}
		c.PublishedBefore = t
	case argRegion:
		c.RegionCode = strings.ToUpper(value)
	case argLang:
		c.Language = value
	}
	return nil
}

// splitArg recognizes key=value tokens with a known key
func splitArg(token string) (key, value string, ok bool) {
	key, value, found := strings.Cut(token, "=")
	if !found {
		return "", "", false
	}
	key = strings.ToLower(key)
	switch key {
	case argMin, argMax, argType, argLimit, argOrder, argAfter, argBefore, argRegion, argLang:
		return key, value, true
	}
	return "", "", false
}

func parseCount(key, value string) (*int64, error) {
	// Accept 1,000 and 1_000 as well as 1000
	clean := strings.NewReplacer(",", "", "_", "").Replace(value)
	n, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return nil, &model.ValidationError{Field: key, Message: "view count must be a whole number"}
	}
	return &n, nil
}
