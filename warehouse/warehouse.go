/*
	Package warehouse addresses durable storage by URI.

	An Artifact is one addressable blob; a Backend serves all coords of
	one scheme family; a Dispatcher owns a set of backends and routes
	coords to them by scheme.  Backends with state (the in-memory one)
	hang that state off their instance, so two dispatchers never share
	storage by accident.
*/
package warehouse

import (
	"io"
	"net/url"
	"path"
	"strings"

	. "github.com/warpfork/go-errcat"

	"go.polydawn.net/keepr/api/def"
)

/*
	Artifact is one addressable blob of bytes at a warehouse coord.

	Handles are cheap and dumb: resolving one performs no IO, and a
	handle may point at a coord nothing has ever written.
*/
type Artifact interface {
	Coord() def.WarehouseCoord

	Exists() (bool, error)
	OpenReader() (io.ReadCloser, error)

	// Write streams a complete new body to the coord.  Misbehavior
	// under concurrent writes to one coord is the caller's problem;
	// the engine runs single-threaded.
	Write(body io.Reader) error
}

// Backend resolves parsed coords within one scheme family.
type Backend interface {
	Resolve(u *url.URL) (Artifact, error)
}

type Dispatcher struct {
	backends map[string]Backend
}

func NewDispatcher(backends map[string]Backend) *Dispatcher {
	held := make(map[string]Backend, len(backends))
	for scheme, backend := range backends {
		held[scheme] = backend
	}
	return &Dispatcher{held}
}

func (d *Dispatcher) Resolve(coord def.WarehouseCoord) (Artifact, error) {
	u, err := url.Parse(string(coord))
	if err != nil {
		return nil, Errorf(def.ErrConfigInvalid, "could not parse warehouse URI %q: %s", coord, err)
	}
	if u.Scheme == "" {
		return nil, Errorf(def.ErrConfigInvalid, "missing scheme in warehouse URI %q; need a prefix, e.g. \"file://\" or \"mem://\"", coord)
	}
	backend, ok := d.backends[u.Scheme]
	if !ok {
		return nil, Errorf(def.ErrConfigInvalid, "unsupported scheme in warehouse URI: %q", u.Scheme)
	}
	return backend.Resolve(u)
}

/*
	Join appends path segments to a root coord, yielding a new coord in
	the same warehouse.  Scheme and host (bucket, volume, ...) pass
	through; only the path grows.
*/
func Join(root def.WarehouseCoord, segments ...string) (def.WarehouseCoord, error) {
	u, err := url.Parse(string(root))
	if err != nil {
		return "", Errorf(def.ErrConfigInvalid, "could not parse warehouse URI %q: %s", root, err)
	}
	u.Path = path.Join(append([]string{u.Path}, segments...)...)
	// url.String mangles host+path unless the path is rooted.
	if u.Host != "" && !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return def.WarehouseCoord(u.String()), nil
}
