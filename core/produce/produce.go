package produce

import (
	. "github.com/warpfork/go-errcat"

	"go.polydawn.net/keepr/api/def"
)

/*
	Any is the untyped face of a computation step.

	Every step can describe itself (Info), name its identity (Signature),
	and yield its value without compile-time knowledge of the value's
	type (GetAny).  Engine internals -- graph walks, persistence wiring,
	reporting -- traffic in this interface; user code holds the typed
	Producer handles instead and never needs to downcast.
*/
type Any interface {
	Info() StepInfo
	Signature() def.Signature
	GetAny() (interface{}, error)
}

/*
	Producer is the typed face of a computation step: everything Any
	offers, plus a Get returning the value with its real type.
*/
type Producer[T any] interface {
	Any

	/*
		Get returns the step's value, computing it on first call and
		serving the memoized value thereafter.  Errors are not memoized;
		a failed Get leaves the step unevaluated and a later call
		retries.
	*/
	Get() (T, error)
}

/*
	StepInfo describes a step: its kind, its params, and its declared
	upstream deps.  Together (with the deps flattened to their
	signatures) these are exactly the inputs to signature derivation.

	Treat it as a read-only view.  The maps are owned by the step;
	mutating them after construction would silently change what the
	signature claims to cover.
*/
type StepInfo struct {
	Kind   string
	Params map[string]def.Value
	Deps   map[string]Any
}

/*
	Flattens the deps map into the name->signature form that identity
	derivation consumes.
*/
func (si StepInfo) depSignatures() map[string]def.Signature {
	sigs := make(map[string]def.Signature, len(si.Deps))
	for name, dep := range si.Deps {
		sigs[name] = dep.Signature()
	}
	return sigs
}

/*
	Option configures a step under construction.  Options are applied in
	order; each may reject the configuration with a usage-category
	error, which aborts construction.
*/
type Option func(*StepInfo) error

/*
	WithParam declares a named parameter.  Params are identity: two
	steps differing in any param value have different signatures.
	Declaring the same name twice is refused rather than last-wins,
	since a silent overwrite would make the losing declaration
	invisible.
*/
func WithParam(name string, value def.Value) Option {
	return func(si *StepInfo) error {
		if name == "" {
			return Errorf(def.ErrUsage, "step %q: param name may not be empty", si.Kind)
		}
		if value == nil {
			return Errorf(def.ErrUsage, "step %q: param %q has a nil value", si.Kind, name)
		}
		if _, exists := si.Params[name]; exists {
			return Errorf(def.ErrUsage, "step %q: param %q declared twice", si.Kind, name)
		}
		si.Params[name] = value
		return nil
	}
}

/*
	WithDep declares a named upstream dependency.  The dep's signature
	folds into this step's signature, so any change upstream ripples
	down.  Naming alone wires identity; actually consuming the dep's
	value is the compute function's business (it typically closes over
	the same handle and calls Get).
*/
func WithDep(name string, dep Any) Option {
	return func(si *StepInfo) error {
		if name == "" {
			return Errorf(def.ErrUsage, "step %q: dep name may not be empty", si.Kind)
		}
		if dep == nil {
			return Errorf(def.ErrUsage, "step %q: dep %q is nil", si.Kind, name)
		}
		if _, exists := si.Deps[name]; exists {
			return Errorf(def.ErrUsage, "step %q: dep %q declared twice", si.Kind, name)
		}
		si.Deps[name] = dep
		return nil
	}
}
