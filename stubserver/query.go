package stubserver

import (
	"sort"
	"strings"
)

// Filter matching for view queries: an omitted (nil/empty) filter field
// constrains nothing; values within a field are OR'ed, fields are AND'ed.

func matchIn[T comparable](filter []T, v T) bool {
	if len(filter) == 0 {
		return true
	}
	for _, f := range filter {
		if f == v {
			return true
		}
	}
	return false
}

func matchRange(min, max *int64, v int64) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}

func matchBool(filter *bool, v bool) bool {
	return filter == nil || *filter == v
}

func matchPartial(partial *string, s string) bool {
	if partial == nil {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(*partial))
}

// sortByTime orders query output by creation time ascending.
func sortByTime[T any](items []T, timeOf func(T) int64) {
	sort.SliceStable(items, func(i, j int) bool { return timeOf(items[i]) < timeOf(items[j]) })
}

// window applies offset/count paging after sorting. Negative values arrive
// straight from the request body and clamp to zero.
func window[T any](items []T, offset, count *int64) []T {
	if offset != nil {
		off := max(*offset, 0)
		if off >= int64(len(items)) {
			return nil
		}
		items = items[off:]
	}
	if count != nil {
		if n := max(*count, 0); n < int64(len(items)) {
			items = items[:n]
		}
	}
	return items
}
