package model

// ViewCountRange is an optional inclusive bound on view counts.
// A nil bound is open.
type ViewCountRange struct {
	Min *int64
	Max *int64
}

// NewViewCountRange validates and builds a range
func NewViewCountRange(min, max *int64) (ViewCountRange, error) {
	if min != nil && *min < 0 {
		return ViewCountRange{}, ErrMinViewCountNegative
	}
	if max != nil && *max < 0 {
		return ViewCountRange{}, ErrMaxViewCountNegative
	}
	if min != nil && max != nil && *min > *max {
		return ViewCountRange{}, ErrViewCountRange
	}
	return ViewCountRange{Min: cloneInt64(min), Max: cloneInt64(max)}, nil
}

// Contains reports whether views lies within the bounds that are set.
// A negative bound is treated as unset on either side; NewViewCountRange rejects them.
func (r ViewCountRange) Contains(views uint64) bool {
	if r.Min != nil && *r.Min > 0 && views < uint64(*r.Min) {
		return false
	}
	if r.Max != nil && *r.Max >= 0 && views > uint64(*r.Max) {
		return false
	}
	return true
}

// IsOpen reports whether neither bound is set
func (r ViewCountRange) IsOpen() bool {
	return r.Min == nil && r.Max == nil
}
