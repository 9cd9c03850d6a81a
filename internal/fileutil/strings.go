package fileutil

import "sort"

func ToSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

func MapKeysSorted(values map[string]bool) []string {
	out := make([]string, 0, len(values))
	for key := range values {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func Intersect(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for key := range a {
		if b[key] {
			out[key] = true
		}
	}
	return out
}

func Union(sets ...map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for _, set := range sets {
		for key := range set {
			out[key] = true
		}
	}
	return out
}
