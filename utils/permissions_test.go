package utils_test

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/utils"
)

type permissionsSuite struct {
	suite.Suite
}

func (s *permissionsSuite) TestWithDefaults() {
	p := utils.Permissions{FilePrivate: 0o640}.WithDefaults()
	s.Equal(fs.FileMode(0o640), p.FilePrivate)
	s.Equal(utils.DefaultFilePublic, p.FilePublic)
	s.Equal(utils.DefaultDirPublic, p.DirPublic)
	s.Equal(utils.DefaultDirPrivate, p.DirPrivate)
}

func (s *permissionsSuite) TestForFileAndDir() {
	p := utils.Permissions{}.WithDefaults()
	s.Equal(utils.DefaultFilePrivate, p.ForFile(blobfs.Private))
	s.Equal(utils.DefaultFilePublic, p.ForFile(blobfs.Public))
	s.Equal(utils.DefaultFilePublic, p.ForFile(""), "no visibility is public")
	s.Equal(utils.DefaultDirPrivate, p.ForDir(blobfs.Private))
	s.Equal(utils.DefaultDirPublic, p.ForDir(blobfs.Public))
}

func (s *permissionsSuite) TestVisibilityOf() {
	p := utils.Permissions{FilePublic: 0o644, FilePrivate: 0o600}
	s.Equal(blobfs.Public, p.VisibilityOf(0o644))
	s.Equal(blobfs.Private, p.VisibilityOf(0o600))
	s.Equal(blobfs.Public, p.VisibilityOf(0o664), "others may read")
	s.Equal(blobfs.Private, p.VisibilityOf(0o640))
	s.Equal(blobfs.Private, p.VisibilityOf(fs.ModeDir|0o700))
}

func (s *permissionsSuite) TestPermissionsFromConfig() {
	p, err := utils.PermissionsFromConfig(blobfs.Config{
		utils.ConfigFilePrivate: "0640",
		utils.ConfigDirPublic:   "775",
	})
	s.Require().NoError(err)
	s.Equal(utils.Permissions{FilePrivate: 0o640, DirPublic: 0o775}, p)

	_, err = utils.PermissionsFromConfig(blobfs.Config{utils.ConfigFilePublic: "rw-r--r--"})
	s.ErrorContains(err, utils.ConfigFilePublic)
}

func TestPermissions(t *testing.T) {
	suite.Run(t, new(permissionsSuite))
}
