package produce

import (
	. "github.com/warpfork/go-errcat"

	"go.polydawn.net/keepr/api/def"
)

var _ Producer[int] = &Node[int]{}

/*
	Node is the standard Producer implementation: a compute function
	plus the StepInfo that names it.

	Values are memoized.  The first successful Get fills the cell and
	the compute function is never invoked again; a failed Get leaves the
	cell unset, so a later call retries.  The signature is likewise
	derived once and cached.

	Nodes are not safe for concurrent use.  Evaluation is
	single-threaded throughout; see the pipeline package.
*/
type Node[T any] struct {
	info StepInfo
	fn   func() (T, error)

	sig    def.Signature
	hashed bool

	val    T
	filled bool
}

/*
	New constructs a computation step.

	The kind names what the step does and anchors its identity; fn
	computes the value.  Params and deps arrive via options.
	Construction fails with a usage-category error on an empty kind, a
	nil fn, or an option that rejects (duplicate names, nil values).

	Errors from fn itself are passed through Get verbatim: fn bodies
	routinely call Get on upstream handles, and those errors already
	carry their own categories.
*/
func New[T any](kind string, fn func() (T, error), opts ...Option) (*Node[T], error) {
	if kind == "" {
		return nil, Errorf(def.ErrUsage, "step kind may not be empty")
	}
	if fn == nil {
		return nil, Errorf(def.ErrUsage, "step %q: compute function may not be nil", kind)
	}
	si := StepInfo{
		Kind:   kind,
		Params: make(map[string]def.Value),
		Deps:   make(map[string]Any),
	}
	for _, opt := range opts {
		if err := opt(&si); err != nil {
			return nil, err
		}
	}
	return &Node[T]{info: si, fn: fn}, nil
}

func (n *Node[T]) Info() StepInfo {
	return n.info
}

/*
	Signature derives the step's identity on first call and caches it.
	Deps are asked for their own signatures, so the first call on a
	deep graph walks the whole upstream cone (each node still hashes
	only once).
*/
func (n *Node[T]) Signature() def.Signature {
	if !n.hashed {
		n.sig = def.DeriveSignature(n.info.Kind, n.info.Params, n.info.depSignatures())
		n.hashed = true
	}
	return n.sig
}

func (n *Node[T]) Get() (T, error) {
	if n.filled {
		return n.val, nil
	}
	v, err := n.fn()
	if err != nil {
		var zero T
		return zero, err
	}
	n.val = v
	n.filled = true
	return n.val, nil
}

func (n *Node[T]) GetAny() (interface{}, error) {
	v, err := n.Get()
	return v, err
}
