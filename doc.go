package jsonmend

// Package jsonmend provides:
//
// - Best-effort repair of malformed or truncated JSON text (Fix/FixBytes)
// - A never-failing parse facade: decoded value, fallback envelope, or caller default (Parse/SafeParse)
// - Longest-valid-prefix recovery when repair alone is not enough
// - Stage diagnostics via an injectable Observer instead of global logging
//
// Design policy:
// - Keep only public APIs in the root package; put the repair engine under internal/repair.
// - Place the goccy/go-json driver under source/gojson and the CLI under cmd/jsonmend.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  v := jsonmend.SafeParse(raw, map[string]any{})
//  fixed := jsonmend.Fix(raw)
//
//  var opt jsonmend.ParseOpt
//  opt.Observer = func(d jsonmend.Diagnostic) { log.Printf("%s/%s", d.Stage, d.Code) }
//  v, diags := jsonmend.Parse(raw, opt)
