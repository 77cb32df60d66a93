package backend

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/c2fo/blobfs"
)

// ConfigLogger is the disk config key under which a *slog.Logger is handed to driver factories.
const ConfigLogger = "logger"

// Logger returns the logger cfg carries under ConfigLogger, or slog.Default().
func Logger(cfg blobfs.Config) *slog.Logger {
	if logger, ok := cfg[ConfigLogger].(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// DriverFactory builds an adapter from the configuration of a disk.
type DriverFactory func(cfg blobfs.Config) (blobfs.Adapter, error)

var mmu sync.RWMutex
var m map[string]DriverFactory

// Register a new driver in backend map
func Register(name string, f DriverFactory) {
	mmu.Lock()
	m[name] = f
	mmu.Unlock()
}

// Unregister unregisters a driver from backend map
func Unregister(name string) {
	mmu.Lock()
	delete(m, name)
	mmu.Unlock()
}

// UnregisterAll unregisters all drivers from backend map
func UnregisterAll() {
	// mainly for tests
	mmu.Lock()
	m = make(map[string]DriverFactory)
	mmu.Unlock()
}

// Driver returns the driver factory by name, or nil when none is registered
func Driver(name string) DriverFactory {
	mmu.RLock()
	defer mmu.RUnlock()
	return m[name]
}

// New builds an adapter with the named driver.
func New(name string, cfg blobfs.Config) (blobfs.Adapter, error) {
	f := Driver(name)
	if f == nil {
		return nil, fmt.Errorf("driver %q: %w", name, ErrDriverNotRegistered)
	}
	return f(cfg)
}

// RegisteredDrivers returns an array of driver names
func RegisteredDrivers() []string {
	var f []string
	mmu.RLock()
	for k := range m {
		f = append(f, k)
	}
	mmu.RUnlock()
	sort.Strings(f)
	return f
}

// ErrDriverNotRegistered is returned by New for an unknown driver name.
const ErrDriverNotRegistered = blobfs.Error("driver is not registered")

func init() {
	m = make(map[string]DriverFactory)
}
