package git

import (
	"regexp"
	"strings"
)

// conventionalPattern matches a Conventional Commits header such as
// "feat(api)!: add endpoint".
var conventionalPattern = regexp.MustCompile(`^([A-Za-z]+)(?:\([^)]*\))?!?:\s`)

// CommitType returns the lowercased Conventional Commits type of a message
// subject, or "" when the subject does not follow the convention.
func CommitType(subject string) string {
	m := conventionalPattern.FindStringSubmatch(strings.TrimSpace(subject) + " ")
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// Subject returns the first line of a commit message.
func Subject(message string) string {
	message = strings.TrimLeft(message, "\r\n")
	if idx := strings.IndexByte(message, '\n'); idx != -1 {
		message = message[:idx]
	}
	return strings.TrimRight(message, "\r ")
}
