package def

import (
	"fmt"
	"strings"

	"github.com/warpfork/go-errcat"
)

/*
	PipelineCfg is the file format for config-driven pipelines: it
	names the workflow, points at the output root, assigns each step a
	persistence policy, and picks a run mode.

	The config decides *where and whether* steps persist and *which*
	steps run; it never defines computations.  Steps themselves are
	declared in code and matched to policies by kind name.
*/
type PipelineCfg struct {
	Title      string                `json:"title"`
	OutputRoot WarehouseCoord        `json:"outputRoot"`
	Steps      map[string]StepPolicy `json:"steps,omitempty"` // kind name -> policy; unnamed steps default to auto
	Run        RunPolicy             `json:"run"`
}

type StepPolicy struct {
	Persist string         `json:"persist"`        // "auto", "path", or "none"; empty means auto
	Path    WarehouseCoord `json:"path,omitempty"` // required iff persist is "path"
}

type RunPolicy struct {
	Mode string   `json:"mode"`           // "full", "dry", or "only"; empty means full
	Only []string `json:"only,omitempty"` // step kind names; required iff mode is "only"
}

const (
	PersistAuto = "auto"
	PersistPath = "path"
	PersistNone = "none"
)

const (
	RunModeFull = "full"
	RunModeDry  = "dry"
	RunModeOnly = "only"
)

/*
	Checks semantic validity: enum fields hold known values, and fields
	that only make sense together appear together.  Purely structural
	problems (unparsable yaml, wrong types) are the loader's
	department and will have already errored by the time you have one
	of these in hand.
*/
func (cfg PipelineCfg) Validate() error {
	if cfg.Title == "" {
		return errcat.Errorf(ErrConfigInvalid, "pipeline config: title is required")
	}
	if cfg.OutputRoot == "" {
		return errcat.Errorf(ErrConfigInvalid, "pipeline config: outputRoot is required")
	}
	for name, policy := range cfg.Steps {
		switch policy.Persist {
		case "", PersistAuto, PersistNone:
			if policy.Path != "" {
				return errcat.Errorf(ErrConfigInvalid, "pipeline config: step %q: path is only meaningful with persist: %q", name, PersistPath)
			}
		case PersistPath:
			if policy.Path == "" {
				return errcat.Errorf(ErrConfigInvalid, "pipeline config: step %q: persist: %q requires a path", name, PersistPath)
			}
		default:
			return errcat.Errorf(ErrConfigInvalid, "pipeline config: step %q: unknown persist policy %q (want %q, %q, or %q)",
				name, policy.Persist, PersistAuto, PersistPath, PersistNone)
		}
	}
	switch cfg.Run.Mode {
	case "", RunModeFull, RunModeDry:
		if len(cfg.Run.Only) != 0 {
			return errcat.Errorf(ErrConfigInvalid, "pipeline config: run.only is only meaningful with run.mode: %q", RunModeOnly)
		}
	case RunModeOnly:
		if len(cfg.Run.Only) == 0 {
			return errcat.Errorf(ErrConfigInvalid, "pipeline config: run.mode: %q requires run.only to name at least one step", RunModeOnly)
		}
	default:
		return errcat.Errorf(ErrConfigInvalid, "pipeline config: unknown run.mode %q (want %q, %q, or %q)",
			cfg.Run.Mode, RunModeFull, RunModeDry, RunModeOnly)
	}
	return nil
}

func (cfg PipelineCfg) String() string {
	mode := cfg.Run.Mode
	if mode == "" {
		mode = RunModeFull
	}
	summary := fmt.Sprintf("pipeline %q -> %s (mode: %s", cfg.Title, cfg.OutputRoot, mode)
	if mode == RunModeOnly {
		summary += ": " + strings.Join(cfg.Run.Only, ", ")
	}
	return summary + ")"
}
