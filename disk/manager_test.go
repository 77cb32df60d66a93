package disk

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/backend"
	"github.com/c2fo/blobfs/backend/mem"
)

type ManagerTestSuite struct {
	suite.Suite
	manager *Manager
}

func (s *ManagerTestSuite) SetupTest() {
	s.manager = NewManager(Config{
		Default: "scratch",
		Disks: map[string]blobfs.Config{
			"scratch": {OptionDriver: mem.DriverName},
			"private": {OptionDriver: mem.DriverName, blobfs.OptionVisibility: "private"},
			"broken":  {OptionDriver: "carrier-pigeon"},
		},
	})
}

func (s *ManagerTestSuite) TestDiskIsCached() {
	first, err := s.manager.Disk("scratch")
	s.Require().NoError(err)
	second, err := s.manager.Disk("scratch")
	s.Require().NoError(err)
	s.Same(first, second)
	s.Equal("scratch", first.Name())

	s.Require().NoError(first.Put(s.T().Context(), "file.txt", []byte("x"), nil))
	exists, err := second.Exists(s.T().Context(), "file.txt")
	s.Require().NoError(err)
	s.True(exists, "both handles share one adapter")
}

func (s *ManagerTestSuite) TestDefault() {
	d, err := s.manager.Default()
	s.Require().NoError(err)
	s.Equal("scratch", d.Name())
	s.Equal("scratch", s.manager.DefaultName())

	_, err = NewManager(Config{}).Default()
	s.ErrorIs(err, ErrNoDefaultDisk)
}

func (s *ManagerTestSuite) TestUnknownDisk() {
	_, err := s.manager.Disk("nope")
	s.ErrorIs(err, ErrDiskNotConfigured)
}

func (s *ManagerTestSuite) TestUnknownDriver() {
	_, err := s.manager.Disk("broken")
	s.ErrorIs(err, ErrDriverNotSupported)
	s.Contains(err.Error(), "carrier-pigeon")
}

func (s *ManagerTestSuite) TestDiskConfigReachesFilesystem() {
	ctx := s.T().Context()
	d, err := s.manager.Disk("private")
	s.Require().NoError(err)
	s.Equal("private", d.Filesystem().Config().String(blobfs.OptionVisibility, ""))

	s.Require().NoError(d.Put(ctx, "file.txt", []byte("x"), nil))
	visibility, err := d.Visibility(ctx, "file.txt")
	s.Require().NoError(err)
	s.Equal(blobfs.Private, visibility)
}

func (s *ManagerTestSuite) TestExtend() {
	calls := 0
	s.manager.Extend("carrier-pigeon", func(cfg blobfs.Config) (blobfs.Adapter, error) {
		calls++
		return mem.NewAdapter(), nil
	})

	d, err := s.manager.Disk("broken")
	s.Require().NoError(err)
	s.NotNil(d)

	_, err = s.manager.Disk("broken")
	s.Require().NoError(err)
	s.Equal(1, calls, "the disk is built once")

	s.manager.Forget("broken")
	_, err = s.manager.Disk("broken")
	s.Require().NoError(err)
	s.Equal(2, calls, "a forgotten disk is built again")
}

func (s *ManagerTestSuite) TestFactoryError() {
	failure := errors.New("no credentials")
	s.manager.Extend("carrier-pigeon", func(blobfs.Config) (blobfs.Adapter, error) {
		return nil, failure
	})

	_, err := s.manager.Disk("broken")
	s.ErrorIs(err, failure)
	s.Contains(err.Error(), `disk "broken"`)
}

func (s *ManagerTestSuite) TestSet() {
	d := NewDisk("custom", blobfs.New(mem.NewAdapter(), nil), nil)
	s.manager.Set("custom", d)

	got, err := s.manager.Disk("custom")
	s.Require().NoError(err)
	s.Same(d, got)
}

func (s *ManagerTestSuite) TestDecorator() {
	var decorated []string
	m := NewManager(Config{Disks: map[string]blobfs.Config{"scratch": {OptionDriver: mem.DriverName}}},
		WithDecorator(func(name string, adapter blobfs.Adapter) blobfs.Adapter {
			decorated = append(decorated, name)
			return adapter
		}),
	)

	_, err := m.Disk("scratch")
	s.Require().NoError(err)
	s.Equal([]string{"scratch"}, decorated)
}

func (s *ManagerTestSuite) TestDriverReceivesLogger() {
	buf := &bytes.Buffer{}
	m := NewManager(Config{Disks: map[string]blobfs.Config{"scratch": {OptionDriver: "recorder"}}},
		WithLogger(slog.New(slog.NewTextHandler(buf, nil))),
	)
	var received blobfs.Config
	m.Extend("recorder", func(cfg blobfs.Config) (blobfs.Adapter, error) {
		received = cfg
		return mem.NewAdapter(), nil
	})

	d, err := m.Disk("scratch")
	s.Require().NoError(err)
	backend.Logger(received).Info("adapter message")
	s.Contains(buf.String(), "adapter message")
	s.Contains(buf.String(), "disk=scratch")
	s.NotContains(d.Config(), backend.ConfigLogger, "the disk keeps its own config")
}

// closingAdapter counts Close calls.
type closingAdapter struct {
	blobfs.Adapter
	closed int
	err    error
}

func (c *closingAdapter) Close() error {
	c.closed++
	return c.err
}

// wrapping decorates an adapter the way tracing does.
type wrapping struct {
	blobfs.Adapter
}

func (w wrapping) Unwrap() blobfs.Adapter {
	return w.Adapter
}

func (s *ManagerTestSuite) TestClose() {
	conn := &closingAdapter{Adapter: mem.NewAdapter()}
	failing := &closingAdapter{Adapter: mem.NewAdapter(), err: errors.New("connection reset")}
	m := NewManager(Config{Disks: map[string]blobfs.Config{
		"sftp":    {OptionDriver: "conn"},
		"ftp":     {OptionDriver: "failing"},
		"scratch": {OptionDriver: mem.DriverName},
	}}, WithDecorator(func(_ string, adapter blobfs.Adapter) blobfs.Adapter {
		return wrapping{adapter}
	}))
	m.Extend("conn", func(blobfs.Config) (blobfs.Adapter, error) { return conn, nil })
	m.Extend("failing", func(blobfs.Config) (blobfs.Adapter, error) { return failing, nil })

	s.NoError(m.Close(), "nothing resolved, nothing to close")

	for _, name := range m.Names() {
		_, err := m.Disk(name)
		s.Require().NoError(err)
	}
	err := m.Close()
	s.ErrorContains(err, `disk "ftp"`)
	s.ErrorContains(err, "connection reset")
	s.Equal(1, conn.closed, "closers are found through wrappers")
	s.Equal(1, failing.closed)

	d, err := m.Disk("sftp")
	s.Require().NoError(err)
	s.NotNil(d, "disks stay cached")
}

func (s *ManagerTestSuite) TestNames() {
	s.Equal([]string{"broken", "private", "scratch"}, s.manager.Names())
}

func TestManagerTestSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}
