// Package gojson provides a jsonmend.Driver backed by goccy/go-json.
package gojson

import (
	j "github.com/goccy/go-json"

	jsonmend "github.com/reoring/jsonmend"
)

// Driver returns a jsonmend.Driver backed by goccy/go-json.
func Driver() jsonmend.Driver { return driverGoJSON{} }

type driverGoJSON struct{}

func (driverGoJSON) Unmarshal(data []byte, v any) error { return j.Unmarshal(data, v) }
func (driverGoJSON) Marshal(v any) ([]byte, error)      { return j.Marshal(v) }
func (driverGoJSON) Valid(data []byte) bool             { return j.Valid(data) }
func (driverGoJSON) Name() string                       { return "go-json" }
