/*
	Package report produces the audit artifacts for a run: a workflow
	snapshot document, a human-readable rendering, and a flat signature
	manifest.

	Reports are built from declarations alone, never from computed
	values, so a run that failed (or never started: dry runs) reports
	exactly as well as a run that succeeded.
*/
package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	. "github.com/warpfork/go-errcat"

	"go.polydawn.net/keepr/api/def"
	"go.polydawn.net/keepr/codec"
	"go.polydawn.net/keepr/core/graph"
	"go.polydawn.net/keepr/core/persist"
	"go.polydawn.net/keepr/core/produce"
	"go.polydawn.net/keepr/warehouse"
)

// Timestamps in artifact names sort lexically in time order.
const stampFormat = "20060102-150405"

/*
	Snapshot assembles the audit document for a run: one record per
	step reachable from the targets, plus the target list itself in
	the order given.

	Steps are recorded sorted by kind then signature, so the document
	is deterministic for a given graph no matter how it was declared.
*/
func Snapshot(title string, runID string, when time.Time, targets []produce.Any) def.WorkflowSnapshot {
	targetSigs := make([]def.Signature, len(targets))
	for i, target := range targets {
		targetSigs[i] = target.Signature()
	}

	reachable := graph.Upstream(targets...)
	steps := make([]def.StepRecord, len(reachable))
	for i, step := range reachable {
		steps[i] = record(step)
	}
	sort.Slice(steps, func(i, j int) bool {
		if steps[i].Kind != steps[j].Kind {
			return steps[i].Kind < steps[j].Kind
		}
		return steps[i].Signature < steps[j].Signature
	})

	return def.WorkflowSnapshot{
		Title:   title,
		Time:    when.UTC().Format(time.RFC3339),
		RunID:   runID,
		Targets: targetSigs,
		Steps:   steps,
	}
}

func record(step produce.Any) def.StepRecord {
	info := step.Info()
	rec := def.StepRecord{
		Kind:      info.Kind,
		Signature: step.Signature(),
	}
	if len(info.Params) > 0 {
		rec.Params = make(map[string]string, len(info.Params))
		for name, value := range info.Params {
			rec.Params[name] = value.Describe()
		}
	}
	if len(info.Deps) > 0 {
		rec.Deps = make(map[string]def.Signature, len(info.Deps))
		for name, dep := range info.Deps {
			rec.Deps[name] = dep.Signature()
		}
	}
	if kept, ok := step.(persist.Any); ok {
		rec.Persisted = true
		rec.Artifact = kept.Artifact().Coord()
	}
	return rec
}

/*
	EncodeJSON serializes a snapshot canonically: same snapshot, same
	bytes, so audit artifacts diff cleanly across runs.
*/
func EncodeJSON(snap def.WorkflowSnapshot) ([]byte, error) {
	return codec.JSON[def.WorkflowSnapshot]().Marshal(snap)
}

/*
	RenderText lays a snapshot out for human eyes.  The format is not
	stable and not meant for parsing; the json document is the one
	tooling should consume.
*/
func RenderText(snap def.WorkflowSnapshot) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "workflow: %s\n", snap.Title)
	fmt.Fprintf(&buf, "time:     %s\n", snap.Time)
	fmt.Fprintf(&buf, "run:      %s\n", snap.RunID)
	fmt.Fprintf(&buf, "targets:\n")
	for _, sig := range snap.Targets {
		fmt.Fprintf(&buf, "  %s\n", sig)
	}
	fmt.Fprintf(&buf, "steps:\n")
	for _, step := range snap.Steps {
		fmt.Fprintf(&buf, "  %s  %s\n", step.Kind, step.Signature)
		for _, name := range sortedKeys(step.Params) {
			fmt.Fprintf(&buf, "    param %s = %s\n", name, step.Params[name])
		}
		for _, name := range sortedKeys(step.Deps) {
			fmt.Fprintf(&buf, "    dep   %s -> %s\n", name, step.Deps[name])
		}
		if step.Persisted {
			fmt.Fprintf(&buf, "    persisted at %s\n", step.Artifact)
		}
	}
	return buf.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

/*
	RenderManifest is the flat list of targets, one `kind<TAB>signature`
	line each, in target order.  Grep fodder.
*/
func RenderManifest(snap def.WorkflowSnapshot) string {
	kindBySig := make(map[def.Signature]string, len(snap.Steps))
	for _, step := range snap.Steps {
		kindBySig[step.Signature] = step.Kind
	}
	var buf bytes.Buffer
	for _, sig := range snap.Targets {
		fmt.Fprintf(&buf, "%s\t%s\n", kindBySig[sig], sig)
	}
	return buf.String()
}

/*
	Emit writes all three audit artifacts under the `summary/` namespace
	of the given warehouse root, named `<title>-<timestamp>` with
	suffixes `.graph.json`, `.graph.txt`, and `.sigs.tsv`.

	The timestamp comes from the snapshot itself, so the three names
	always agree.  Titles become filename stems, hence the validation.
*/
func Emit(snap def.WorkflowSnapshot, root def.WarehouseCoord, dispatch *warehouse.Dispatcher) error {
	if err := ValidateTitle(snap.Title); err != nil {
		return err
	}
	when, err := time.Parse(time.RFC3339, snap.Time)
	if err != nil {
		return Errorf(def.ErrInternal, "snapshot carries a malformed time %q: %s", snap.Time, err)
	}
	stem := "summary/" + snap.Title + "-" + when.UTC().Format(stampFormat)

	jsonBody, err := EncodeJSON(snap)
	if err != nil {
		return err
	}
	parts := []struct {
		suffix string
		body   []byte
	}{
		{".graph.json", jsonBody},
		{".graph.txt", []byte(RenderText(snap))},
		{".sigs.tsv", []byte(RenderManifest(snap))},
	}
	for _, part := range parts {
		coord, err := warehouse.Join(root, stem+part.suffix)
		if err != nil {
			return err
		}
		art, err := dispatch.Resolve(coord)
		if err != nil {
			return err
		}
		if err := art.Write(bytes.NewReader(part.body)); err != nil {
			return err
		}
	}
	return nil
}

/*
	ValidateTitle rejects titles that cannot serve as audit artifact
	name stems: empty ones, and ones reaching into other directories.
*/
func ValidateTitle(title string) error {
	if title == "" {
		return Errorf(def.ErrUsage, "workflow title may not be empty")
	}
	if strings.ContainsAny(title, "/\\") {
		return Errorf(def.ErrUsage, "workflow title %q may not contain path separators", title)
	}
	return nil
}
