package blobfs

import (
	"regexp"
	"strings"
)

// regex matching characters that may never appear in a path
var corruptedPathRegex = regexp.MustCompile(`\p{C}`)

// NormalizePath turns a caller supplied path into the canonical form adapters receive: whitespace trimmed,
// backslashes converted to forward slashes, no leading or trailing slash, and "." or ".." segments resolved.
// A ".." that would climb above the root yields ErrPathTraversal.
func NormalizePath(p string) (string, error) {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if corruptedPathRegex.MatchString(p) {
		return "", ErrCorruptedPath
	}

	parts := make([]string, 0, strings.Count(p, "/")+1)
	for _, segment := range strings.Split(p, "/") {
		switch segment {
		case "", ".":
		case "..":
			if len(parts) == 0 {
				return "", ErrPathTraversal
			}
			parts = parts[:len(parts)-1]
		default:
			parts = append(parts, segment)
		}
	}
	return strings.Join(parts, "/"), nil
}

// EnsureTrailingSlash adds a trailing slash to a non-empty directory path, turning it into an object prefix.
func EnsureTrailingSlash(dir string) string {
	if dir == "" || strings.HasSuffix(dir, "/") {
		return dir
	}
	return dir + "/"
}

// ParentDirectories returns every ancestor directory of a file path, outermost first. For "a/b/c.txt" it returns
// ["a", "a/b"].
func ParentDirectories(p string) []string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	if len(segments) < 2 {
		return nil
	}
	dirs := make([]string, 0, len(segments)-1)
	for i := 1; i < len(segments); i++ {
		dirs = append(dirs, strings.Join(segments[:i], "/"))
	}
	return dirs
}
