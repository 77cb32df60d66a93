package disk

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/backend"
	"github.com/c2fo/blobfs/options"
)

// OptionDriver is the disk config key naming the driver that builds the disk's adapter.
const OptionDriver = "driver"

const (
	// ErrDiskNotConfigured is returned when a disk name has no entry in the configuration.
	ErrDiskNotConfigured = blobfs.Error("disk is not configured")
	// ErrDriverNotSupported is returned when a disk names a driver neither registered nor added with Extend.
	ErrDriverNotSupported = blobfs.Error("driver is not supported")
	// ErrNoDefaultDisk is returned by Default when the configuration names no default disk.
	ErrNoDefaultDisk = blobfs.Error("no default disk is configured")
)

// filesystemKeys are the disk config keys handed to the Filesystem as per call defaults.
var filesystemKeys = []string{
	blobfs.OptionVisibility,
	blobfs.OptionDirectoryVisibility,
	blobfs.OptionChecksumAlgo,
	blobfs.OptionPublicURL,
	blobfs.OptionHeaders,
}

// Config lists the configured disks and names the default one.
type Config struct {
	Default string
	Disks   map[string]blobfs.Config
}

// AdapterDecorator wraps every adapter the manager builds, e.g. to add tracing.
type AdapterDecorator func(name string, adapter blobfs.Adapter) blobfs.Adapter

// Manager resolves disks by name, building each one once from its config and caching it. It is safe for
// concurrent use.
type Manager struct {
	config    Config
	logger    *slog.Logger
	decorator AdapterDecorator

	mu      sync.Mutex
	disks   map[string]*Disk
	drivers map[string]backend.DriverFactory
}

// NewManager returns a Manager over cfg.
func NewManager(cfg Config, opts ...options.NewAdapterOption[Manager]) *Manager {
	if cfg.Disks == nil {
		cfg.Disks = map[string]blobfs.Config{}
	}
	m := &Manager{
		config:  cfg,
		logger:  slog.Default(),
		disks:   map[string]*Disk{},
		drivers: map[string]backend.DriverFactory{},
	}
	options.ApplyOptions(m, opts...)
	return m
}

// Default returns the default disk.
func (m *Manager) Default() (*Disk, error) {
	if m.config.Default == "" {
		return nil, ErrNoDefaultDisk
	}
	return m.Disk(m.config.Default)
}

// DefaultName returns the name of the default disk.
func (m *Manager) DefaultName() string {
	return m.config.Default
}

// Disk returns the disk called name, building it on first use.
func (m *Manager) Disk(name string) (*Disk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d, ok := m.disks[name]; ok {
		return d, nil
	}
	d, err := m.resolve(name)
	if err != nil {
		return nil, err
	}
	m.disks[name] = d
	return d, nil
}

func (m *Manager) resolve(name string) (*Disk, error) {
	cfg, ok := m.config.Disks[name]
	if !ok {
		return nil, fmt.Errorf("disk %q: %w", name, ErrDiskNotConfigured)
	}
	driver := cfg.String(OptionDriver, "")
	factory, ok := m.drivers[driver]
	if !ok {
		factory = backend.Driver(driver)
	}
	if factory == nil {
		return nil, fmt.Errorf("disk %q: driver %q: %w", name, driver, ErrDriverNotSupported)
	}

	driverCfg := cfg
	if _, ok := cfg[backend.ConfigLogger]; !ok {
		driverCfg = cfg.Extend(blobfs.Config{backend.ConfigLogger: m.logger.With(slog.String("disk", name))})
	}
	adapter, err := factory(driverCfg)
	if err != nil {
		return nil, fmt.Errorf("disk %q: %w", name, err)
	}
	if m.decorator != nil {
		adapter = m.decorator(name, adapter)
	}
	m.logger.Debug("resolved disk", slog.String("disk", name), slog.String("driver", driver))

	defaults := blobfs.Config{}
	for _, key := range filesystemKeys {
		if v, ok := cfg[key]; ok {
			defaults[key] = v
		}
	}
	return NewDisk(name, blobfs.New(adapter, defaults), cfg), nil
}

// Extend registers a driver factory with this manager only. It takes precedence over the backend registry.
func (m *Manager) Extend(driver string, factory backend.DriverFactory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver] = factory
}

// Set places d in the cache under name, replacing any disk resolved before.
func (m *Manager) Set(name string, d *Disk) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disks[name] = d
}

// Forget drops the cached disks called names, so the next Disk call builds them again.
func (m *Manager) Forget(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, name := range names {
		delete(m.disks, name)
	}
}

// Names returns the configured disk names in order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.config.Disks))
	for name := range m.config.Disks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes the adapters of the cached disks holding connections, such as sftp and ftp. The disks stay
// cached and their adapters connect again on next use.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, name := range sortedKeys(m.disks) {
		c, ok := closer(m.disks[name].Filesystem().Adapter())
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("disk %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// closer finds an io.Closer among adapter and the adapters it wraps.
func closer(adapter blobfs.Adapter) (io.Closer, bool) {
	for adapter != nil {
		if c, ok := adapter.(io.Closer); ok {
			return c, true
		}
		w, ok := adapter.(blobfs.Wrapper)
		if !ok {
			return nil, false
		}
		adapter = w.Unwrap()
	}
	return nil, false
}

func sortedKeys(disks map[string]*Disk) []string {
	names := make([]string, 0, len(disks))
	for name := range disks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
