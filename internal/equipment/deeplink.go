package equipment

import "regexp"

var deepLinkPattern = regexp.MustCompile(`^/equipment-order/([^/]+)$`)

// ParseDeepLink extracts the registration number from /equipment-order/<regNumber>.
func ParseDeepLink(path string) (string, bool) {
	m := deepLinkPattern.FindStringSubmatch(path)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}
