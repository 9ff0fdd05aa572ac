package fileinput

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ParseDroppedPath recognizes a paste that is really a file dragged onto the
// terminal. Terminals paste such drops as a single path, sometimes quoted,
// shell-escaped or as a file:// URL. It returns the cleaned path and true only
// when that path names an existing regular file.
func ParseDroppedPath(pasted string) (string, bool) {
	s := strings.TrimSpace(pasted)
	if s == "" || strings.ContainsAny(s, "\n\r") {
		return "", false
	}

	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			s = s[1 : len(s)-1]
		}
	}

	if strings.HasPrefix(s, "file://") {
		u, err := url.Parse(s)
		if err != nil || u.Path == "" {
			return "", false
		}
		s = u.Path
	} else {
		s = unescapeShell(s)
	}

	if strings.HasPrefix(s, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		s = filepath.Join(home, s[2:])
	}

	if !filepath.IsAbs(s) && !strings.HasPrefix(s, ".") {
		return "", false
	}

	info, err := os.Stat(s)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return filepath.Clean(s), true
}

// unescapeShell drops the backslashes terminals put before spaces and other
// shell metacharacters.
func unescapeShell(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	escaped := false
	for _, r := range s {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		sb.WriteRune(r)
	}
	return sb.String()
}
