package util

import "strconv"

// ChildKey derives the storage key of one chunk of a split item:
// <parentKey>:<seed>:<index>. The seed is unique per split operation, so
// child keyspaces of distinct splits never intersect.
func ChildKey(parentKey, seed string, index int) string {
	return parentKey + ":" + seed + ":" + strconv.Itoa(index)
}
