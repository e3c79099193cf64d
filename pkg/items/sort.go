package items

import (
	"sort"
	"strconv"
	"strings"
)

// namePrefix is stripped from a record name before deriving its sort key.
// Only the first occurrence is removed, case-sensitively.
const namePrefix = "Item "

// SortKey is the secondary sort key derived from a record name. Exactly one
// of Num/Str is meaningful, selected by Numeric.
//
// The tie-break between the two kinds is a declared policy, not an accident
// of any comparison utility: numeric keys always order before string keys.
type SortKey struct {
	Numeric bool
	Num     int64
	Str     string
}

// KeyForName derives the secondary sort key for a record name: strip the
// first "Item " occurrence, then use the integer value if the remainder
// parses as one, otherwise the remaining string.
func KeyForName(name string) SortKey {
	stripped := strings.Replace(name, namePrefix, "", 1)
	if n, err := strconv.ParseInt(stripped, 10, 64); err == nil {
		return SortKey{Numeric: true, Num: n}
	}
	return SortKey{Str: stripped}
}

// Less reports whether k orders before other under the declared total order.
func (k SortKey) Less(other SortKey) bool {
	if k.Numeric != other.Numeric {
		return k.Numeric
	}
	if k.Numeric {
		return k.Num < other.Num
	}
	return k.Str < other.Str
}

// SortRecords orders records by ListID ascending, then by the secondary key
// of their name. The sort is stable, so records with fully equal keys keep
// their relative source order. The input slice is not modified.
func SortRecords(records []Record) []Record {
	type keyed struct {
		rec Record
		key SortKey
	}

	// Keys are derived once up front rather than inside the comparator.
	ks := make([]keyed, len(records))
	for i, r := range records {
		ks[i] = keyed{rec: r, key: KeyForName(r.Name)}
	}

	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].rec.ListID != ks[j].rec.ListID {
			return ks[i].rec.ListID < ks[j].rec.ListID
		}
		return ks[i].key.Less(ks[j].key)
	})

	out := make([]Record, len(ks))
	for i, k := range ks {
		out[i] = k.rec
	}
	return out
}
