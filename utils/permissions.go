package utils

import (
	"fmt"
	"io/fs"
	"strconv"

	"github.com/c2fo/blobfs"
)

// Default permissions of each visibility.
const (
	DefaultFilePublic  fs.FileMode = 0o644
	DefaultFilePrivate fs.FileMode = 0o600
	DefaultDirPublic   fs.FileMode = 0o755
	DefaultDirPrivate  fs.FileMode = 0o700
)

// Disk configuration keys of the permission map. Values are octal strings such as "0640".
const (
	ConfigFilePublic  = "permissions.file.public"
	ConfigFilePrivate = "permissions.file.private"
	ConfigDirPublic   = "permissions.dir.public"
	ConfigDirPrivate  = "permissions.dir.private"
)

// Permissions maps visibilities onto unix file modes, for adapters storing visibility as permission bits.
type Permissions struct {
	FilePublic  fs.FileMode `json:"filePublic,omitempty"`
	FilePrivate fs.FileMode `json:"filePrivate,omitempty"`
	DirPublic   fs.FileMode `json:"dirPublic,omitempty"`
	DirPrivate  fs.FileMode `json:"dirPrivate,omitempty"`
}

// WithDefaults fills the unset modes with the Default modes.
func (p Permissions) WithDefaults() Permissions {
	if p.FilePublic == 0 {
		p.FilePublic = DefaultFilePublic
	}
	if p.FilePrivate == 0 {
		p.FilePrivate = DefaultFilePrivate
	}
	if p.DirPublic == 0 {
		p.DirPublic = DefaultDirPublic
	}
	if p.DirPrivate == 0 {
		p.DirPrivate = DefaultDirPrivate
	}
	return p
}

// ForFile returns the mode of a file with visibility v.
func (p Permissions) ForFile(v blobfs.Visibility) fs.FileMode {
	if v == blobfs.Private {
		return p.FilePrivate
	}
	return p.FilePublic
}

// ForDir returns the mode of a directory with visibility v.
func (p Permissions) ForDir(v blobfs.Visibility) fs.FileMode {
	if v == blobfs.Private {
		return p.DirPrivate
	}
	return p.DirPublic
}

// VisibilityOf inverts ForFile. Modes matching neither are public when others may read them.
func (p Permissions) VisibilityOf(mode fs.FileMode) blobfs.Visibility {
	switch perm := mode.Perm(); {
	case perm == p.FilePublic:
		return blobfs.Public
	case perm == p.FilePrivate:
		return blobfs.Private
	case perm&0o004 != 0:
		return blobfs.Public
	}
	return blobfs.Private
}

// PermissionsFromConfig reads the permission keys of cfg. Unset keys stay zero.
func PermissionsFromConfig(cfg blobfs.Config) (Permissions, error) {
	var p Permissions
	for key, target := range map[string]*fs.FileMode{
		ConfigFilePublic:  &p.FilePublic,
		ConfigFilePrivate: &p.FilePrivate,
		ConfigDirPublic:   &p.DirPublic,
		ConfigDirPrivate:  &p.DirPrivate,
	} {
		if v := cfg.String(key, ""); v != "" {
			mode, err := strconv.ParseUint(v, 8, 32)
			if err != nil {
				return Permissions{}, fmt.Errorf("%s: %w", key, err)
			}
			*target = fs.FileMode(mode)
		}
	}
	return p, nil
}
