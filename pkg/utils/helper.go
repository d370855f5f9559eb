package utils

import "strings"

// NormalizeSignage trims a call-sign and upper-cases it so "mst" and "MST"
// resolve to the same owner.
func NormalizeSignage(signage string) string {
	return strings.ToUpper(strings.Join(strings.Fields(signage), " "))
}
