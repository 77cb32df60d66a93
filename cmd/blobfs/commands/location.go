package commands

import (
	"strings"

	"github.com/c2fo/blobfs/disk"
)

// location is a disk:path argument.
type location struct {
	disk string
	path string
}

func parseLocation(arg string) location {
	name, path, ok := strings.Cut(arg, ":")
	if !ok {
		return location{path: arg}
	}
	return location{disk: name, path: path}
}

func (l location) String() string {
	if l.disk == "" {
		return l.path
	}
	return l.disk + ":" + l.path
}

// resolve opens the disk of the location argument arg.
func (a *app) resolve(arg string) (*disk.Disk, location, error) {
	loc := parseLocation(arg)
	d, err := a.open(loc.disk)
	if err != nil {
		return nil, loc, err
	}
	if loc.disk == "" {
		loc.disk = d.Name()
	}
	return d, loc, nil
}
