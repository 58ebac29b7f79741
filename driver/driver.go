// Package driver defines a backend-agnostic GPU resource abstraction:
// a vocabulary of opaque handle types (buffers, textures, views,
// samplers, descriptor sets, render passes, framebuffers, pipelines,
// command buffers, queues, fences, semaphores, swapchains) plus the
// capability contract a concrete backend must implement.
//
// Client code never holds a concrete handle; it holds an opaque,
// non-owning reference. The backend that created a handle is its sole
// owner, and owns the responsibility of releasing it once the GPU is
// known to be done with it.
package driver

import (
	"errors"
	"log"
	"sync"
)

// Driver loads and unloads a concrete backend implementation.
type Driver interface {
	// Open initializes the driver. If it succeeds, further calls with
	// the same receiver have no effect and return the same GPU.
	// Open is not safe for parallel execution.
	Open() (GPU, error)

	// Name returns the driver's name. It must not cause the driver to
	// be opened.
	Name() string

	// Close deinitializes the driver. Closing a driver that is not
	// open has no effect. Close is not safe for parallel execution.
	Close()
}

// Sentinel errors returned by Driver/GPU methods.
var (
	ErrNotInstalled  = errors.New("driver: required library not present")
	ErrNoDevice      = errors.New("driver: no suitable device found")
	ErrNoHostMemory  = errors.New("driver: out of host memory")
	ErrNoDeviceMemory = errors.New("driver: out of device memory")
	ErrDeviceLost    = errors.New("driver: device lost")
	ErrInvalidArg    = errors.New("driver: invalid argument")
	ErrNotSupported  = errors.New("driver: feature not supported")
	ErrSurfaceLost   = errors.New("driver: surface lost")
	ErrOutOfDate     = errors.New("driver: swapchain out of date")
)

// Drivers returns the registered drivers.
func Drivers() []Driver {
	mu.Lock()
	defer mu.Unlock()
	drv := make([]Driver, len(drivers))
	copy(drv, drivers)
	return drv
}

// Register registers a Driver. Implementations call this exactly once,
// from an init function. A driver with the same name is replaced.
func Register(drv Driver) {
	mu.Lock()
	defer mu.Unlock()
	for i := range drivers {
		if drivers[i].Name() == drv.Name() {
			drivers[i] = drv
			log.Printf("[!] driver %q replaced", drv.Name())
			return
		}
	}
	drivers = append(drivers, drv)
	log.Printf("driver %q registered", drv.Name())
}

var (
	mu      sync.Mutex
	drivers = make([]Driver, 0, 1)
)
