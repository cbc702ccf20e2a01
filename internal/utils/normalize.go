package utils

// CreateRankList returns the 1-based positions of count already sorted
// items.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := range ranks {
		ranks[i] = uint16(i + 1)
	}
	return ranks
}

// ClampLimit returns requested bounded to [1, maxLimit], or fallback when
// requested is not positive.
func ClampLimit(requested, fallback, maxLimit int) int {
	limit := requested
	if limit <= 0 {
		limit = fallback
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}
