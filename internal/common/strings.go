package common

import "strings"

// UniquePaths trims and de-duplicates input paths, preserving order. Passing
// the same file twice would double-count every record in it.
func UniquePaths(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		p := strings.TrimSpace(s)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
