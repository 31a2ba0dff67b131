/*
	Package foreman runs pipelines under the direction of a config
	file: which steps persist and where, and which run mode fires.

	The foreman adds no machinery of its own.  It translates per-step
	policies into the pipeline registration calls you could have made
	yourself, then dispatches the configured run mode.
*/
package foreman

import (
	"github.com/inconshreveable/log15"
	. "github.com/warpfork/go-errcat"

	"go.polydawn.net/keepr/api/def"
	"go.polydawn.net/keepr/codec"
	"go.polydawn.net/keepr/core/pipeline"
	"go.polydawn.net/keepr/core/produce"
	"go.polydawn.net/keepr/warehouse"
)

type Foreman struct {
	cfg def.PipelineCfg
	pl  *pipeline.Pipeline
}

/*
	New validates the config and builds the pipeline it describes,
	rooted at the config's outputRoot.
*/
func New(cfg def.PipelineCfg, dispatch *warehouse.Dispatcher, log log15.Logger) (*Foreman, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pl, err := pipeline.New(cfg.OutputRoot, dispatch, log)
	if err != nil {
		return nil, err
	}
	return &Foreman{cfg: cfg, pl: pl}, nil
}

// Pipeline exposes the underlying pipeline, mostly for inspection.
func (f *Foreman) Pipeline() *pipeline.Pipeline {
	return f.pl
}

/*
	Step registers a computation under the config's policy for its
	kind:

	  - persist "auto", or no policy named: cached at the conventional
	    data/ path under the output root
	  - persist "path": cached at the policy's explicit coord
	  - persist "none": registered as a plain target, cached nowhere

	The returned handle is the one downstream steps should depend on:
	for persisted policies that is the caching node, so downstream Gets
	pull from the cache; for "none" it is the step itself, unchanged.
*/
func Step[T any](f *Foreman, prod produce.Producer[T], cod codec.Codec[T]) (produce.Producer[T], error) {
	if prod == nil {
		return nil, Errorf(def.ErrUsage, "foreman: cannot register a nil step")
	}
	policy := f.cfg.Steps[prod.Info().Kind]
	switch policy.Persist {
	case "", def.PersistAuto:
		return pipeline.Persist(f.pl, prod, cod)
	case def.PersistPath:
		return pipeline.PersistAt(f.pl, prod, cod, policy.Path)
	case def.PersistNone:
		if err := f.pl.AddTarget(prod); err != nil {
			return nil, err
		}
		return prod, nil
	default:
		return nil, Errorf(def.ErrInternal, "persist policy %q escaped config validation", policy.Persist)
	}
}

/*
	Execute dispatches the configured run mode.  Dry runs yield no
	outcomes; the other modes yield whatever the pipeline reports.
*/
func (f *Foreman) Execute() ([]pipeline.Outcome, error) {
	switch f.cfg.Run.Mode {
	case "", def.RunModeFull:
		return f.pl.Run(f.cfg.Title)
	case def.RunModeDry:
		return nil, f.pl.DryRun(f.cfg.Title)
	case def.RunModeOnly:
		return f.pl.RunOnly(f.cfg.Title, f.cfg.Run.Only...)
	default:
		return nil, Errorf(def.ErrInternal, "run mode %q escaped config validation", f.cfg.Run.Mode)
	}
}
