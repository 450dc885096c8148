package utils

import "strings"

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// AnyContainsFold reports whether any of values contains term, ignoring case.
func AnyContainsFold(term string, values ...string) bool {
	for _, v := range values {
		if ContainsFold(v, term) {
			return true
		}
	}
	return false
}
