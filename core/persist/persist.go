package persist

import (
	"bytes"
	"io"

	"github.com/inconshreveable/log15"
	. "github.com/warpfork/go-errcat"

	"go.polydawn.net/keepr/api/def"
	"go.polydawn.net/keepr/codec"
	"go.polydawn.net/keepr/core/produce"
	"go.polydawn.net/keepr/warehouse"
)

/*
	Any is the untyped face of a persisted step: a produce.Any that
	additionally knows where its value is cached, and can be re-pointed
	at a different artifact.

	The engine sniffs for this interface to tell persisted steps from
	plain ones (for upstream checks and reporting); user code should
	rarely need it.
*/
type Any interface {
	produce.Any
	Artifact() warehouse.Artifact
	ChangeArtifactAny(art warehouse.Artifact) Any
}

var _ Any = &Node[int]{}

/*
	Node wraps a computation step with a cache backed by a warehouse
	artifact.

	Get consults the artifact before computing: a present artifact is
	decoded and returned without ever invoking the inner step, which is
	the entire point of the exercise.  On a miss the inner step runs and
	the value is serialized into the artifact, but only on success; a
	failed computation writes nothing.

	Artifacts are written at most once.  An existing artifact is never
	rewritten, so a populated cache is stable even across codec or
	logic drift -- which cuts both ways: a present-but-garbled artifact
	is treated as corruption and reported fatally, never as a miss to
	quietly paper over by recomputing.

	A Node carries the same signature and StepInfo as its inner step.
	Caching changes where a value comes from, not what it is.

	Like everything else in the evaluation path, not safe for
	concurrent use.
*/
type Node[T any] struct {
	cell *cell[T]
	art  warehouse.Artifact
}

/*
	The memo and the wiring live apart from the artifact pointer so
	that ChangeArtifact can share them: re-pointing a step at another
	warehouse location changes where bytes land, not what the step is,
	and an already-evaluated step stays evaluated.
*/
type cell[T any] struct {
	inner  produce.Producer[T]
	cod    codec.Codec[T]
	log    log15.Logger
	val    T
	filled bool
}

/*
	Keep wraps a step with artifact-backed caching.

	The codec decides the bytes; the artifact decides the place; the
	logger gets a debug line per cache consultation.  All four arguments
	are mandatory.
*/
func Keep[T any](inner produce.Producer[T], art warehouse.Artifact, cod codec.Codec[T], log log15.Logger) (*Node[T], error) {
	if inner == nil {
		return nil, Errorf(def.ErrUsage, "persist: inner step may not be nil")
	}
	if art == nil {
		return nil, Errorf(def.ErrUsage, "persist: step %q: artifact may not be nil", inner.Info().Kind)
	}
	if cod == nil {
		return nil, Errorf(def.ErrUsage, "persist: step %q: codec may not be nil", inner.Info().Kind)
	}
	if log == nil {
		return nil, Errorf(def.ErrUsage, "persist: step %q: logger may not be nil", inner.Info().Kind)
	}
	return &Node[T]{
		cell: &cell[T]{inner: inner, cod: cod, log: log},
		art:  art,
	}, nil
}

func (n *Node[T]) Info() produce.StepInfo {
	return n.cell.inner.Info()
}

func (n *Node[T]) Signature() def.Signature {
	return n.cell.inner.Signature()
}

func (n *Node[T]) Artifact() warehouse.Artifact {
	return n.art
}

/*
	ChangeArtifact returns a handle to the same step cached at a
	different location.  The inner step and the memo are shared with
	the receiver; only the artifact pointer differs.  Re-pointing after
	evaluation therefore serves the memo and never touches the new
	location; re-point before the first Get if you want the bytes to
	land there.
*/
func (n *Node[T]) ChangeArtifact(art warehouse.Artifact) *Node[T] {
	return &Node[T]{cell: n.cell, art: art}
}

func (n *Node[T]) ChangeArtifactAny(art warehouse.Artifact) Any {
	return n.ChangeArtifact(art)
}

func (n *Node[T]) Get() (T, error) {
	var zero T
	c := n.cell
	if c.filled {
		return c.val, nil
	}
	kind := c.inner.Info().Kind

	exists, err := n.art.Exists()
	if err != nil {
		return zero, err
	}
	if exists {
		v, err := n.readCache(kind)
		if err != nil {
			return zero, err
		}
		c.log.Debug("cache hit", "step", kind, "sig", n.Signature(), "artifact", n.art.Coord())
		c.val, c.filled = v, true
		return c.val, nil
	}

	c.log.Debug("cache miss", "step", kind, "sig", n.Signature(), "artifact", n.art.Coord())
	v, err := c.inner.Get()
	if err != nil {
		return zero, err
	}
	body, err := c.cod.Marshal(v)
	if err != nil {
		return zero, err
	}
	if err := n.art.Write(bytes.NewReader(body)); err != nil {
		return zero, err
	}
	c.log.Debug("cache filled", "step", kind, "sig", n.Signature(), "artifact", n.art.Coord(), "bytes", len(body))
	c.val, c.filled = v, true
	return c.val, nil
}

func (n *Node[T]) GetAny() (interface{}, error) {
	v, err := n.Get()
	return v, err
}

func (n *Node[T]) readCache(kind string) (T, error) {
	var zero T
	r, err := n.art.OpenReader()
	if err != nil {
		return zero, err
	}
	defer r.Close()
	body, err := io.ReadAll(r)
	if err != nil {
		return zero, Errorf(def.ErrCacheCorrupt,
			"step %q: cached artifact at %s is unreadable: %s",
			kind, n.art.Coord(), err)
	}
	v, err := n.cell.cod.Unmarshal(body)
	if err != nil {
		return zero, Errorf(def.ErrCacheCorrupt,
			"step %q: cached artifact at %s does not decode: %s",
			kind, n.art.Coord(), err)
	}
	return v, nil
}

/*
	CachePath names the conventional location for a step's cached value
	under a warehouse root: `data/<kind>.<signature>`, with the codec's
	format id dot-appended when it has one.

	The format suffix is purely cosmetic, a courtesy to humans rummaging
	in the cache directory.  It is not part of the step's identity;
	identity is the signature alone.
*/
func CachePath(kind string, sig def.Signature, format string) string {
	p := "data/" + kind + "." + string(sig)
	if format != "" {
		p += "." + format
	}
	return p
}
