package jsonmend

import (
	"encoding/json"
	"sync"
)

// Driver abstracts the underlying JSON codec via a pluggable SPI. The default
// implementation is based on encoding/json and may be swapped with SetDriver
// (see source/gojson for a goccy/go-json-backed driver).
type Driver interface {
	Unmarshal(data []byte, v any) error
	Marshal(v any) ([]byte, error)
	Valid(data []byte) bool
	Name() string
}

var (
	driverMu      sync.RWMutex
	currentDriver Driver = defaultDriver{}
)

// SetDriver replaces the global JSON driver; nil values are ignored.
func SetDriver(d Driver) {
	if d == nil {
		return
	}
	driverMu.Lock()
	currentDriver = d
	driverMu.Unlock()
}

// UseDefaultDriver restores the default encoding/json-backed driver.
func UseDefaultDriver() {
	driverMu.Lock()
	currentDriver = defaultDriver{}
	driverMu.Unlock()
}

func getDriver() Driver {
	driverMu.RLock()
	d := currentDriver
	driverMu.RUnlock()
	return d
}

// defaultDriver wraps the encoding/json implementation.
type defaultDriver struct{}

func (defaultDriver) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (defaultDriver) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (defaultDriver) Valid(data []byte) bool             { return json.Valid(data) }
func (defaultDriver) Name() string                       { return "encoding/json" }
