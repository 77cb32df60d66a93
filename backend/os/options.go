package os

import (
	"fmt"
	"strings"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/utils"
)

// Default permissions of each visibility.
const (
	DefaultFilePublic  = utils.DefaultFilePublic
	DefaultFilePrivate = utils.DefaultFilePrivate
	DefaultDirPublic   = utils.DefaultDirPublic
	DefaultDirPrivate  = utils.DefaultDirPrivate
)

// LinkHandling decides what listings do when they meet a symbolic link.
type LinkHandling int

const (
	// DisallowLinks fails the listing.
	DisallowLinks LinkHandling = iota
	// SkipLinks leaves links out of the listing.
	SkipLinks
)

// String returns the configuration name of the handling.
func (l LinkHandling) String() string {
	if l == SkipLinks {
		return "skip"
	}
	return "disallow"
}

// ParseLinkHandling parses "disallow" or "skip". An empty string is DisallowLinks.
func ParseLinkHandling(s string) (LinkHandling, error) {
	switch strings.ToLower(s) {
	case "", "disallow":
		return DisallowLinks, nil
	case "skip":
		return SkipLinks, nil
	}
	return DisallowLinks, fmt.Errorf("unknown link handling %q", s)
}

// Options holds local disk options.
type Options struct {
	// Root is the directory every path is resolved against. Writes create it when missing.
	Root        string            `json:"root"`
	Permissions utils.Permissions `json:"permissions"`
	// DefaultVisibility applies to files written without a visibility. Defaults to public.
	DefaultVisibility blobfs.Visibility `json:"defaultVisibility,omitempty"`
	// DefaultDirectoryVisibility applies to directories created without a visibility. Defaults to public.
	DefaultDirectoryVisibility blobfs.Visibility `json:"defaultDirectoryVisibility,omitempty"`
	LinkHandling               LinkHandling      `json:"linkHandling,omitempty"`
	// TempDir holds files while they are written. Defaults to the directory of the file being written.
	TempDir string `json:"tempDir,omitempty"`
	// PublicURLBase is prepended to paths by PublicURL, e.g. the URL the root is served under.
	PublicURLBase string `json:"publicUrlBase,omitempty"`
}

func (o *Options) applyDefaults() {
	o.Permissions = o.Permissions.WithDefaults()
	if o.DefaultVisibility == "" {
		o.DefaultVisibility = blobfs.Public
	}
	if o.DefaultDirectoryVisibility == "" {
		o.DefaultDirectoryVisibility = blobfs.Public
	}
}
