package metrics

import "sort"

// KindBucket is one row of an error-kind breakdown.
type KindBucket struct {
	Kind  ErrorKind
	Count int
}

// SortKindBuckets converts a kind->count map into rows sorted by descending count,
// then by kind name for stability.
func SortKindBuckets(kinds map[ErrorKind]int) []KindBucket {
	if len(kinds) == 0 {
		return nil
	}
	rows := make([]KindBucket, 0, len(kinds))
	for kind, count := range kinds {
		rows = append(rows, KindBucket{Kind: kind, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count == rows[j].Count {
			return rows[i].Kind < rows[j].Kind
		}
		return rows[i].Count > rows[j].Count
	})
	return rows
}
