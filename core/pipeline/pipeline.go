/*
	Package pipeline orchestrates runs: it owns the registry of
	persisted targets, validates partial-run requests, drives
	evaluation, and leaves audit artifacts behind.

	A Pipeline is an instance, not a singleton.  Two pipelines share
	nothing; registering a step on one says nothing about the other.
*/
package pipeline

import (
	"github.com/inconshreveable/log15"
	. "github.com/warpfork/go-errcat"

	"go.polydawn.net/keepr/api/def"
	"go.polydawn.net/keepr/codec"
	"go.polydawn.net/keepr/core/persist"
	"go.polydawn.net/keepr/core/produce"
	"go.polydawn.net/keepr/warehouse"
)

type Pipeline struct {
	log      log15.Logger
	root     def.WarehouseCoord
	dispatch *warehouse.Dispatcher

	// registry: append-only except for Redirect, which swaps a target
	// in place (same signature, different artifact).
	targets []produce.Any
	bySig   map[def.Signature]int
}

/*
	New builds an empty pipeline writing under the given warehouse
	root.  The root's scheme is resolved eagerly so that a misspelled
	or unregistered scheme surfaces here, not halfway into a run.
*/
func New(root def.WarehouseCoord, dispatch *warehouse.Dispatcher, log log15.Logger) (*Pipeline, error) {
	if dispatch == nil {
		return nil, Errorf(def.ErrUsage, "pipeline: dispatcher may not be nil")
	}
	if log == nil {
		return nil, Errorf(def.ErrUsage, "pipeline: logger may not be nil")
	}
	if root == "" {
		return nil, Errorf(def.ErrConfigInvalid, "pipeline: output root may not be empty")
	}
	probe, err := warehouse.Join(root, "data", ".probe")
	if err != nil {
		return nil, err
	}
	if _, err := dispatch.Resolve(probe); err != nil {
		return nil, err
	}
	return &Pipeline{
		log:      log,
		root:     root,
		dispatch: dispatch,
		targets:  []produce.Any{},
		bySig:    make(map[def.Signature]int),
	}, nil
}

/*
	Persist wraps a step with caching at the conventional location
	under the pipeline's root (data/<kind>.<signature>, plus the
	codec's format suffix) and registers it as a run target.

	Registering the same signature again with the same location hands
	back the already-registered node, so independent declaration sites
	converge on one memo.  The same signature aimed at a different
	location is refused; that is what Redirect is for.
*/
func Persist[T any](pl *Pipeline, prod produce.Producer[T], cod codec.Codec[T]) (*persist.Node[T], error) {
	if prod == nil {
		return nil, Errorf(def.ErrUsage, "pipeline: cannot persist a nil step")
	}
	if cod == nil {
		return nil, Errorf(def.ErrUsage, "pipeline: step %q: codec may not be nil", prod.Info().Kind)
	}
	path := persist.CachePath(prod.Info().Kind, prod.Signature(), cod.Format())
	coord, err := warehouse.Join(pl.root, path)
	if err != nil {
		return nil, err
	}
	return PersistAt(pl, prod, cod, coord)
}

/*
	PersistAt is Persist with an explicit artifact coord instead of the
	conventional path.
*/
func PersistAt[T any](pl *Pipeline, prod produce.Producer[T], cod codec.Codec[T], coord def.WarehouseCoord) (*persist.Node[T], error) {
	if prod == nil {
		return nil, Errorf(def.ErrUsage, "pipeline: cannot persist a nil step")
	}
	if cod == nil {
		return nil, Errorf(def.ErrUsage, "pipeline: step %q: codec may not be nil", prod.Info().Kind)
	}
	art, err := pl.dispatch.Resolve(coord)
	if err != nil {
		return nil, err
	}
	sig := prod.Signature()
	if idx, ok := pl.bySig[sig]; ok {
		existing := pl.targets[idx]
		kept, isKept := existing.(persist.Any)
		if !isKept {
			return nil, Errorf(def.ErrUsage,
				"pipeline: step %q (signature %s) is already registered unpersisted",
				prod.Info().Kind, sig)
		}
		if kept.Artifact().Coord() != art.Coord() {
			return nil, Errorf(def.ErrUsage,
				"pipeline: step %q (signature %s) is already registered at %s; refusing divergent artifact %s (use Redirect to override)",
				prod.Info().Kind, sig, kept.Artifact().Coord(), art.Coord())
		}
		typed, ok := existing.(*persist.Node[T])
		if !ok {
			return nil, Errorf(def.ErrUsage,
				"pipeline: step %q (signature %s) is already registered with a different value type",
				prod.Info().Kind, sig)
		}
		return typed, nil
	}
	node, err := persist.Keep(prod, art, cod, pl.log)
	if err != nil {
		return nil, err
	}
	pl.bySig[sig] = len(pl.targets)
	pl.targets = append(pl.targets, node)
	return node, nil
}

/*
	AddTarget registers a step as a run target without persistence: it
	will be evaluated by Run, appear in audit artifacts, and cache
	nothing.  Unpersisted targets cannot be selected by RunOnly.
*/
func (pl *Pipeline) AddTarget(prod produce.Any) error {
	if prod == nil {
		return Errorf(def.ErrUsage, "pipeline: cannot register a nil step")
	}
	sig := prod.Signature()
	if _, ok := pl.bySig[sig]; ok {
		return Errorf(def.ErrUsage,
			"pipeline: step %q (signature %s) is already registered",
			prod.Info().Kind, sig)
	}
	pl.bySig[sig] = len(pl.targets)
	pl.targets = append(pl.targets, prod)
	return nil
}

/*
	Redirect re-points an already-registered persisted target (named by
	its kind, the same way RunOnly selects) at a different artifact
	coord.  Signature and any evaluation already performed are
	unaffected; only where the bytes land changes.
*/
func (pl *Pipeline) Redirect(name string, coord def.WarehouseCoord) error {
	matches := pl.indicesByKind(name)
	switch {
	case len(matches) == 0:
		return Errorf(def.ErrNoSuchStep, "no such step: %s", name)
	case len(matches) > 1:
		return Errorf(def.ErrNoSuchStep,
			"step name %q is ambiguous: %d registered steps share it",
			name, len(matches))
	}
	idx := matches[0]
	kept, ok := pl.targets[idx].(persist.Any)
	if !ok {
		return Errorf(def.ErrNotPersisted,
			"step %q is not persisted; there is no artifact to redirect", name)
	}
	art, err := pl.dispatch.Resolve(coord)
	if err != nil {
		return err
	}
	pl.targets[idx] = kept.ChangeArtifactAny(art)
	return nil
}

// Targets returns the registry in registration order.  The slice is a
// copy; the handles are the live ones.
func (pl *Pipeline) Targets() []produce.Any {
	return append([]produce.Any(nil), pl.targets...)
}

func (pl *Pipeline) indicesByKind(name string) []int {
	var matches []int
	for i, target := range pl.targets {
		if target.Info().Kind == name {
			matches = append(matches, i)
		}
	}
	return matches
}
