package jsonmend

import (
	"fmt"
	"strings"
)

// Stage identifies where in the repair chain a diagnostic was recorded.
type Stage string

const (
	StageValidate Stage = "validate"
	StageRepair   Stage = "repair"
	StageRecover  Stage = "recover"
	StageFacade   Stage = "facade"
)

// Diagnostic codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInitialParseFailed = "initial_parse_failed"
	CodeCandidateExtracted = "candidate_extracted"
	CodeRepairApplied      = "repair_applied"
	CodeRepairSucceeded    = "repair_succeeded"
	CodePassPanic          = "pass_panic"
	CodePrefixSearch       = "prefix_search"
	CodePrefixRecovered    = "prefix_recovered"
	CodeEnvelopeUsed       = "envelope_used"
	CodeDefaultUsed        = "default_used"
	CodeInputTooLarge      = "input_too_large"
)

// Diagnostic is a single stage-transition record. Diagnostics are
// observability output only; they never influence the returned value.
type Diagnostic struct {
	Stage   Stage
	Code    string // One of the codes listed above.
	Message string
	// Pos is a byte position when known (-1 otherwise). For
	// CodePrefixRecovered it is the length of the recovered prefix.
	Pos int
	// Pass optionally records the repair pass that produced this diagnostic.
	Pass string
}

// Diagnostics is the ordered record of one Parse/SafeParse run. It implements
// error so callers that want to log the whole run can do so directly.
type Diagnostics []Diagnostic

// Error summarizes the first few diagnostics.
func (ds Diagnostics) Error() string {
	if len(ds) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(ds)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		d := ds[i]
		// e.g. initial_parse_failed at validate
		fmt.Fprintf(b, "%s at %s", d.Code, d.Stage)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Observer receives each Diagnostic as it is recorded. Observers run inline;
// a panicking observer is swallowed so it cannot affect the returned value.
type Observer func(Diagnostic)
