package token

import (
	"sort"
	"strings"
)

const rolePrefix = "ROLE_"

// NormalizeRole guarantees exactly one ROLE_ prefix on a role string.
// "ADMIN", "ROLE_ADMIN" and "ROLE_ROLE_ADMIN" all converge to "ROLE_ADMIN";
// the operation is idempotent.
func NormalizeRole(role string) string {
	role = strings.ToUpper(strings.TrimSpace(role))
	if role == "" {
		return ""
	}

	for strings.HasPrefix(role, rolePrefix) {
		role = strings.TrimPrefix(role, rolePrefix)
	}

	if role == "" {
		return ""
	}

	return rolePrefix + role
}

// NormalizeRoles normalizes a role set, dropping empties and duplicates.
// The result is sorted so claim payloads are deterministic.
func NormalizeRoles(roles []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		normalized := NormalizeRole(role)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}

	sort.Strings(out)
	return out
}
