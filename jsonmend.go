package jsonmend

import (
	"fmt"

	"github.com/reoring/jsonmend/internal/repair"
)

// ParseOpt tunes a single Parse/SafeParse call. Passed variadically; the last
// value wins.
type ParseOpt struct {
	// Observer receives each Diagnostic as it is recorded.
	Observer Observer
	// MaxBytes rejects inputs larger than this many bytes before any repair
	// work runs (0 disables the ceiling). Oversized inputs go straight to the
	// fallback envelope.
	MaxBytes int64
	// OriginalLimit overrides the envelope excerpt bound
	// (DefaultOriginalLimit when <= 0).
	OriginalLimit int
}

func normalizeOpt(opts []ParseOpt) ParseOpt {
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	return opt
}

// Fix runs the repair pipeline over text and returns the repaired text.
// Already-valid input is returned unchanged. The result is best-effort and
// may still be invalid; Fix never fails.
func Fix(text string) string {
	if getDriver().Valid([]byte(text)) {
		return text
	}
	var ds Diagnostics
	return repairText(text, ParseOpt{}, &ds)
}

// FixBytes is Fix for a byte slice. The input slice is never mutated.
func FixBytes(b []byte) []byte {
	return []byte(Fix(string(b)))
}

// Extract strips markdown code fences and surrounding prose from text,
// returning the embedded JSON candidate. The result may still be malformed.
func Extract(text string) string {
	out, _ := repair.ExtractCandidate(text)
	return out
}

// Parse runs the full chain: validate, repair, re-validate, prefix recovery,
// fallback envelope. It always returns a value; the Diagnostics record which
// stages fired. The returned value is nil only in the degenerate case where
// the active driver cannot round-trip the envelope.
func Parse(text string, opts ...ParseOpt) (any, Diagnostics) {
	v, ok, ds := run(text, normalizeOpt(opts))
	if !ok {
		return nil, ds
	}
	return v, ds
}

// SafeParse is Parse with a caller-supplied default: when even the fallback
// envelope cannot be produced, defaultValue is returned. SafeParse never
// returns an error and never panics.
func SafeParse(text string, defaultValue any, opts ...ParseOpt) any {
	opt := normalizeOpt(opts)
	var ds Diagnostics
	v, ok := func() (v any, ok bool) {
		defer func() {
			if r := recover(); r != nil {
				ok = false
			}
		}()
		v, ok, ds = run(text, opt)
		return v, ok
	}()
	if !ok {
		record(opt, &ds, Diagnostic{Stage: StageFacade, Code: CodeDefaultUsed, Message: "using default", Pos: -1})
		return defaultValue
	}
	return v
}

// run is the shared pipeline behind Parse and SafeParse. ok is false only
// when no value could be produced at all, including the envelope.
func run(raw string, opt ParseOpt) (any, bool, Diagnostics) {
	var ds Diagnostics
	d := getDriver()

	if opt.MaxBytes > 0 && int64(len(raw)) > opt.MaxBytes {
		record(opt, &ds, Diagnostic{
			Stage:   StageValidate,
			Code:    CodeInputTooLarge,
			Message: fmt.Sprintf("input is %d bytes, ceiling is %d", len(raw), opt.MaxBytes),
			Pos:     int(opt.MaxBytes),
		})
		return envelopeValue(d, raw, opt, &ds)
	}

	v, err := decode(d, raw)
	if err == nil {
		return v, true, ds
	}
	record(opt, &ds, Diagnostic{
		Stage:   StageValidate,
		Code:    CodeInitialParseFailed,
		Message: "initial parse failed: " + err.Error(),
		Pos:     -1,
	})

	work := raw
	if cand, changed := repair.ExtractCandidate(work); changed {
		record(opt, &ds, Diagnostic{Stage: StageRepair, Code: CodeCandidateExtracted, Message: "stripped fences or surrounding prose", Pos: -1})
		work = cand
		if v, err := decode(d, work); err == nil {
			return v, true, ds
		}
	}

	work = repairText(work, opt, &ds)
	if v, err := decode(d, work); err == nil {
		record(opt, &ds, Diagnostic{Stage: StageRepair, Code: CodeRepairSucceeded, Message: "repair succeeded", Pos: -1})
		return v, true, ds
	}

	record(opt, &ds, Diagnostic{Stage: StageRecover, Code: CodePrefixSearch, Message: "falling back to prefix search", Pos: -1})
	for i := len(work); i > 0; i-- {
		v, err := decode(d, work[:i])
		if err != nil {
			continue
		}
		record(opt, &ds, Diagnostic{
			Stage:   StageRecover,
			Code:    CodePrefixRecovered,
			Message: fmt.Sprintf("recovered %d of %d bytes", i, len(work)),
			Pos:     i,
		})
		return v, true, ds
	}

	return envelopeValue(d, raw, opt, &ds)
}

// repairText applies the repair passes in order. A panicking pass is recorded
// and skipped; the pipeline continues with the pass's input text.
func repairText(text string, opt ParseOpt, ds *Diagnostics) string {
	for _, p := range repair.Passes {
		text = runPass(p, text, opt, ds)
	}
	return text
}

func runPass(p repair.Pass, text string, opt ParseOpt, ds *Diagnostics) (out string) {
	defer func() {
		if r := recover(); r != nil {
			record(opt, ds, Diagnostic{
				Stage:   StageRepair,
				Code:    CodePassPanic,
				Message: fmt.Sprint(r),
				Pos:     -1,
				Pass:    p.Name,
			})
			out = text
		}
	}()
	out = p.Apply(text)
	if out != text {
		record(opt, ds, Diagnostic{Stage: StageRepair, Code: CodeRepairApplied, Message: "pass changed text", Pos: -1, Pass: p.Name})
	}
	return out
}

// envelopeValue decodes the fallback envelope through the driver so the
// caller sees the same value shapes as any other parse result. The envelope
// uses the raw, unrepaired input for its excerpt.
func envelopeValue(d Driver, raw string, opt ParseOpt, ds *Diagnostics) (any, bool, Diagnostics) {
	env := NewEnvelope(raw, opt.OriginalLimit)
	b, err := d.Marshal(env)
	if err == nil {
		var v any
		if err := d.Unmarshal(b, &v); err == nil {
			record(opt, ds, Diagnostic{Stage: StageRecover, Code: CodeEnvelopeUsed, Message: "no valid prefix; returning fallback envelope", Pos: -1})
			return v, true, *ds
		}
	}
	return nil, false, *ds
}

func decode(d Driver, text string) (any, error) {
	var v any
	if err := d.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func record(opt ParseOpt, ds *Diagnostics, d Diagnostic) {
	*ds = append(*ds, d)
	if opt.Observer == nil {
		return
	}
	// Observer failures must not affect the returned value.
	func() {
		defer func() { _ = recover() }()
		opt.Observer(d)
	}()
}
