package parser

import (
	"regexp"
	"strings"
)

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)`)

// DetectVersion returns the major.minor OpenAPI version of a decoded
// document, read from its "openapi" field or, for Swagger 2.0, its
// "swagger" field. It returns "" when neither holds a version string.
func DetectVersion(doc any) string {
	m, ok := doc.(map[string]any)
	if !ok {
		return ""
	}
	for _, field := range []string{"openapi", "swagger"} {
		s, ok := m[field].(string)
		if !ok {
			continue
		}
		if match := versionPattern.FindStringSubmatch(strings.TrimSpace(s)); match != nil {
			return match[1] + "." + match[2]
		}
	}
	return ""
}
