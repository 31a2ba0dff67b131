/*
	In-memory warehouse over billy's memfs, addressed as
	`mem://volume/path`.  Volumes spring into being on first touch and
	live exactly as long as the Backend instance; two Backend instances
	never share a volume, no matter what the volumes are named.

	Mostly this exists for tests and for pipelines that want real
	persistence semantics without touching disk.
*/
package mem

import (
	"io"
	"net/url"
	"os"
	"path"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	. "github.com/warpfork/go-errcat"

	"go.polydawn.net/keepr/api/def"
	"go.polydawn.net/keepr/warehouse"
)

type Backend struct {
	mu   sync.Mutex
	vols map[string]billy.Filesystem
}

var _ warehouse.Backend = &Backend{}

func New() *Backend {
	return &Backend{vols: make(map[string]billy.Filesystem)}
}

func (b *Backend) volume(name string) billy.Filesystem {
	b.mu.Lock()
	defer b.mu.Unlock()
	fs, ok := b.vols[name]
	if !ok {
		fs = memfs.New()
		b.vols[name] = fs
	}
	return fs
}

func (b *Backend) Resolve(u *url.URL) (warehouse.Artifact, error) {
	if u.Scheme != "mem" {
		return nil, Errorf(def.ErrConfigInvalid, "mem warehouse cannot serve scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, Errorf(def.ErrConfigInvalid, "mem warehouse URIs name a volume, e.g. \"mem://scratch/some/path\"")
	}
	if u.Path == "" || u.Path == "/" {
		return nil, Errorf(def.ErrConfigInvalid, "mem warehouse URI %q needs a path inside the volume", u.String())
	}
	return &memArtifact{
		coord: def.WarehouseCoord(u.String()),
		fs:    b.volume(u.Host),
		path:  u.Path,
	}, nil
}

type memArtifact struct {
	coord def.WarehouseCoord
	fs    billy.Filesystem
	path  string
}

var _ warehouse.Artifact = &memArtifact{}

func (a *memArtifact) Coord() def.WarehouseCoord { return a.coord }

func (a *memArtifact) Exists() (bool, error) {
	_, err := a.fs.Stat(a.path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, Errorf(def.ErrWarehouseIO, "could not stat %q: %s", a.coord, err)
	}
}

func (a *memArtifact) OpenReader() (io.ReadCloser, error) {
	f, err := a.fs.Open(a.path)
	switch {
	case err == nil:
		return f, nil
	case os.IsNotExist(err):
		return nil, Errorf(def.ErrArtifactMissing, "no artifact at %q", a.coord)
	default:
		return nil, Errorf(def.ErrWarehouseIO, "could not open %q: %s", a.coord, err)
	}
}

func (a *memArtifact) Write(body io.Reader) error {
	if err := a.fs.MkdirAll(path.Dir(a.path), 0755); err != nil {
		return Errorf(def.ErrWarehouseIO, "could not make dirs for %q: %s", a.coord, err)
	}
	f, err := a.fs.Create(a.path)
	if err != nil {
		return Errorf(def.ErrWarehouseIO, "could not create %q: %s", a.coord, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return Errorf(def.ErrWarehouseIO, "could not write %q: %s", a.coord, err)
	}
	if err := f.Close(); err != nil {
		return Errorf(def.ErrWarehouseIO, "could not write %q: %s", a.coord, err)
	}
	return nil
}
