package utils

import "strings"

// DirectoryTracker synthesizes the directory entries of a listing over a flat key space. Each directory between the
// listing root and a listed path is reported once; the root itself never is.
type DirectoryTracker struct {
	root       string
	rootPrefix string
	seen       map[string]struct{}
}

// NewDirectoryTracker returns a DirectoryTracker for a listing of root, a normalized path where "" is the store root.
func NewDirectoryTracker(root string) *DirectoryTracker {
	rootPrefix := ""
	if root != "" {
		rootPrefix = root + "/"
	}
	return &DirectoryTracker{root: root, rootPrefix: rootPrefix, seen: map[string]struct{}{}}
}

// Add records dir and reports whether it was not seen before.
func (d *DirectoryTracker) Add(dir string) bool {
	if dir == "" || dir == d.root {
		return false
	}
	if _, ok := d.seen[dir]; ok {
		return false
	}
	d.seen[dir] = struct{}{}
	return true
}

// Parents records the directories between the root and path, returning the new ones outermost first.
func (d *DirectoryTracker) Parents(path string) []string {
	segments := strings.Split(strings.TrimPrefix(path, d.rootPrefix), "/")
	var out []string
	for i := 1; i < len(segments); i++ {
		dir := d.rootPrefix + strings.Join(segments[:i], "/")
		if d.Add(dir) {
			out = append(out, dir)
		}
	}
	return out
}
