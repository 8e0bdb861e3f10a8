package course

import (
	"encoding/json"
	"sort"

	"gorm.io/datatypes"
)

// decodeIDSet reads a JSON array column into a slice of IDs. A malformed or
// empty column decodes to an empty set.
func decodeIDSet(col datatypes.JSON) []uint {
	if len(col) == 0 {
		return []uint{}
	}
	var ids []uint
	if err := json.Unmarshal(col, &ids); err != nil {
		return []uint{}
	}
	return ids
}

// encodeIDSet writes a slice of IDs back to a JSON array column, deduplicated
// and sorted so the stored form is stable.
func encodeIDSet(ids []uint) datatypes.JSON {
	seen := make(map[uint]bool, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })

	raw, _ := json.Marshal(unique)
	return datatypes.JSON(raw)
}

// UnionIDSet merges extra IDs into a JSON array column
func UnionIDSet(col datatypes.JSON, extra ...uint) datatypes.JSON {
	return encodeIDSet(append(decodeIDSet(col), extra...))
}

// RemoveFromIDSet drops an ID from a JSON array column
func RemoveFromIDSet(col datatypes.JSON, id uint) datatypes.JSON {
	ids := decodeIDSet(col)
	kept := make([]uint, 0, len(ids))
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	return encodeIDSet(kept)
}
