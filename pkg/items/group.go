package items

import "sort"

// Grouped maps a list id to its records, ordered by the global sort order
// restricted to that group. Group keys only exist for non-empty buckets.
type Grouped map[int64][]Record

// GroupRecords buckets an already sorted record slice by ListID in a single
// pass, preserving order inside each bucket. An empty input yields an empty,
// non-nil result. Grouping cannot fail.
func GroupRecords(sorted []Record) Grouped {
	groups := make(Grouped, 16)
	for _, r := range sorted {
		groups[r.ListID] = append(groups[r.ListID], r)
	}
	return groups
}

// GroupIDs returns the group keys in ascending numeric order, which is the
// order they are rendered in.
func (g Grouped) GroupIDs() []int64 {
	ids := make([]int64, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the total number of records across all groups.
func (g Grouped) Len() int {
	n := 0
	for _, recs := range g {
		n += len(recs)
	}
	return n
}
