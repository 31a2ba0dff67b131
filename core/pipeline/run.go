package pipeline

import (
	"strings"
	"time"

	. "github.com/warpfork/go-errcat"

	"go.polydawn.net/keepr/api/def"
	"go.polydawn.net/keepr/core/graph"
	"go.polydawn.net/keepr/core/persist"
	"go.polydawn.net/keepr/core/produce"
	"go.polydawn.net/keepr/core/report"
	"go.polydawn.net/keepr/lib/guid"
)

// Outcome is one evaluated target's result.
type Outcome struct {
	Kind      string
	Signature def.Signature
	Value     interface{}
}

/*
	Run evaluates every registered target in registration order.

	Shared upstream steps compute once; anything already cached is
	served from its artifact.  The first failing target stops the run
	and the error is returned with no outcomes at all -- partial result
	sets are worse than none, since the caller cannot tell which half
	they got.  Audit artifacts are written either way.
*/
func (pl *Pipeline) Run(title string) ([]Outcome, error) {
	if err := report.ValidateTitle(title); err != nil {
		return nil, err
	}
	return pl.execute(title, "full", pl.targets, pl.targets)
}

/*
	RunOnly evaluates just the targets named (by step kind), after
	validating the request:

	  - every name must resolve to exactly one registered target
	  - every resolved target must be persisted
	  - every persisted upstream outside the selection must already
	    have its artifact, since a partial run by definition computes
	    nothing beyond what was asked for

	All validation happens before any computation.  A failed validation
	still leaves audit artifacts behind (covering the whole registry,
	since the selection could not be resolved).
*/
func (pl *Pipeline) RunOnly(title string, names ...string) ([]Outcome, error) {
	if err := report.ValidateTitle(title); err != nil {
		return nil, err
	}
	selected, verr := pl.selectTargets(names)
	if verr != nil {
		runID := guid.New()
		log := pl.log.New("run", runID, "workflow", title, "mode", "only")
		log.Error("partial run rejected", "err", verr)
		snap := report.Snapshot(title, runID, time.Now(), pl.targets)
		if err := report.Emit(snap, pl.root, pl.dispatch); err != nil {
			log.Error("audit artifacts could not be written", "err", err)
		}
		return nil, verr
	}
	return pl.execute(title, "only", selected, selected)
}

/*
	DryRun writes the audit artifacts a Run with this registry would
	write, evaluating nothing.
*/
func (pl *Pipeline) DryRun(title string) error {
	if err := report.ValidateTitle(title); err != nil {
		return err
	}
	_, err := pl.execute(title, "dry", pl.targets, nil)
	return err
}

/*
	The shared run loop.  `roots` shape the audit snapshot; `evalSet`
	is what actually gets evaluated (nil for dry runs).
*/
func (pl *Pipeline) execute(title string, mode string, roots []produce.Any, evalSet []produce.Any) ([]Outcome, error) {
	runID := guid.New()
	start := time.Now()
	log := pl.log.New("run", runID, "workflow", title, "mode", mode)
	log.Info("run starting", "targets", len(evalSet), "registered", len(pl.targets))

	snap := report.Snapshot(title, runID, start, roots)

	outcomes := []Outcome{}
	var evalErr error
	for _, target := range evalSet {
		info := target.Info()
		slog := log.New("step", info.Kind, "sig", target.Signature())
		v, err := target.GetAny()
		if err != nil {
			err = normalizeEvalErr(info.Kind, err)
			slog.Error("step failed", "err", err)
			outcomes = nil
			evalErr = err
			break
		}
		slog.Info("step complete")
		outcomes = append(outcomes, Outcome{
			Kind:      info.Kind,
			Signature: target.Signature(),
			Value:     v,
		})
	}

	// the audit trail is owed regardless of how evaluation went.
	if err := report.Emit(snap, pl.root, pl.dispatch); err != nil {
		if evalErr == nil {
			return nil, err
		}
		log.Error("audit artifacts could not be written", "err", err)
	}

	elapsed := time.Since(start)
	if evalErr != nil {
		log.Error("run failed", "elapsed", elapsed)
		return nil, evalErr
	}
	log.Info("run complete", "elapsed", elapsed)
	return outcomes, nil
}

/*
	Evaluation errors bubbling out of user compute functions may be any
	error at all; give the uncategorized ones the evaluation category
	so exit codes and handling stay predictable.  Errors already
	carrying an engine category (cache corruption, warehouse trouble)
	pass through untouched.
*/
func normalizeEvalErr(kind string, err error) error {
	if _, ok := Category(err).(def.ErrorCategory); ok {
		return err
	}
	return Errorf(def.ErrEvaluationFailed, "step %q failed: %s", kind, err)
}

/*
	Resolves RunOnly names to registry targets and applies the
	partial-run validations.  Selected targets come back in registry
	order, deduplicated.
*/
func (pl *Pipeline) selectTargets(names []string) ([]produce.Any, error) {
	// validation: every name resolves, unambiguously.
	picked := make(map[int]bool)
	var unknown []string
	for _, name := range names {
		matches := pl.indicesByKind(name)
		switch {
		case len(matches) == 0:
			unknown = append(unknown, name)
		case len(matches) > 1:
			return nil, Errorf(def.ErrNoSuchStep,
				"step name %q is ambiguous: %d registered steps share it",
				name, len(matches))
		default:
			picked[matches[0]] = true
		}
	}
	if len(unknown) == 1 {
		return nil, Errorf(def.ErrNoSuchStep, "no such step: %s", unknown[0])
	}
	if len(unknown) > 1 {
		return nil, Errorf(def.ErrNoSuchStep, "no such steps: %s", strings.Join(unknown, ", "))
	}

	var selected []produce.Any
	for i, target := range pl.targets {
		if picked[i] {
			selected = append(selected, target)
		}
	}

	// validation: partial runs may only select persisted targets.
	var unpersisted []string
	for _, target := range selected {
		if _, ok := target.(persist.Any); !ok {
			unpersisted = append(unpersisted, target.Info().Kind)
		}
	}
	if len(unpersisted) == 1 {
		return nil, Errorf(def.ErrNotPersisted,
			"step %q is not persisted; only persisted steps can be selected for a partial run",
			unpersisted[0])
	}
	if len(unpersisted) > 1 {
		return nil, Errorf(def.ErrNotPersisted,
			"steps are not persisted: %s; only persisted steps can be selected for a partial run",
			strings.Join(unpersisted, ", "))
	}

	// validation: persisted upstreams outside the selection must
	// already be cached.  A partial run computes what was asked for
	// and nothing else.
	inSelection := make(map[def.Signature]bool, len(selected))
	for _, target := range selected {
		inSelection[target.Signature()] = true
	}
	var missing []string
	for _, step := range graph.Upstream(selected...) {
		if inSelection[step.Signature()] {
			continue
		}
		kept, ok := step.(persist.Any)
		if !ok {
			continue
		}
		exists, err := kept.Artifact().Exists()
		if err != nil {
			return nil, err
		}
		if !exists {
			missing = append(missing, kept.Info().Kind)
		}
	}
	if len(missing) == 1 {
		return nil, Errorf(def.ErrUpstreamMissing,
			"upstream step %q has no artifact yet; run it first",
			missing[0])
	}
	if len(missing) > 1 {
		return nil, Errorf(def.ErrUpstreamMissing,
			"upstream steps have no artifacts yet: %s; run them first",
			strings.Join(missing, ", "))
	}

	return selected, nil
}
