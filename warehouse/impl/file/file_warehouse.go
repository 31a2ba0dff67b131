/*
	Local filesystem warehouse, which also moonlights as the read-only
	http(s) warehouse: both kinds of coord are "URL-ish places you can
	GET bytes from", and only one of them can be written.
*/
package file

import (
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	. "github.com/warpfork/go-errcat"

	"go.polydawn.net/keepr/api/def"
	"go.polydawn.net/keepr/lib/guid"
	"go.polydawn.net/keepr/warehouse"
)

type Backend struct{}

var _ warehouse.Backend = Backend{}

func New() Backend {
	return Backend{}
}

func (Backend) Resolve(u *url.URL) (warehouse.Artifact, error) {
	coord := def.WarehouseCoord(u.String())
	switch u.Scheme {
	case "file":
		// file uris don't have hosts; a leading "./" parses as one.
		return &fileArtifact{coord, filepath.Join(u.Host, u.Path)}, nil
	case "http", "https":
		return &httpArtifact{coord, u.String()}, nil
	default:
		return nil, Errorf(def.ErrConfigInvalid, "file warehouse cannot serve scheme %q", u.Scheme)
	}
}

type fileArtifact struct {
	coord def.WarehouseCoord
	path  string
}

var _ warehouse.Artifact = &fileArtifact{}

func (a *fileArtifact) Coord() def.WarehouseCoord { return a.coord }

func (a *fileArtifact) Exists() (bool, error) {
	_, err := os.Stat(a.path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, Errorf(def.ErrWarehouseIO, "could not stat %q: %s", a.coord, err)
	}
}

func (a *fileArtifact) OpenReader() (io.ReadCloser, error) {
	f, err := os.Open(a.path)
	switch {
	case err == nil:
		return f, nil
	case os.IsNotExist(err):
		return nil, Errorf(def.ErrArtifactMissing, "no artifact at %q", a.coord)
	default:
		return nil, Errorf(def.ErrWarehouseIO, "could not open %q: %s", a.coord, err)
	}
}

/*
	Write stages the body to a temp file in the destination dir, then
	renames it into place, so a torn write is never observable at the
	final path.
*/
func (a *fileArtifact) Write(body io.Reader) (err error) {
	dir := filepath.Dir(a.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Errorf(def.ErrWarehouseIO, "could not make dirs for %q: %s", a.coord, err)
	}
	stagePath := filepath.Join(dir, ".tmp.upload."+guid.New())
	f, err := os.OpenFile(stagePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return Errorf(def.ErrWarehouseIO, "could not stage upload for %q: %s", a.coord, err)
	}
	defer func() {
		if err != nil {
			os.Remove(stagePath)
		}
	}()
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return Errorf(def.ErrWarehouseIO, "could not write %q: %s", a.coord, err)
	}
	if err := f.Close(); err != nil {
		return Errorf(def.ErrWarehouseIO, "could not write %q: %s", a.coord, err)
	}
	if err := os.Rename(stagePath, a.path); err != nil {
		return Errorf(def.ErrWarehouseIO, "could not commit %q: %s", a.coord, err)
	}
	return nil
}

type httpArtifact struct {
	coord def.WarehouseCoord
	url   string
}

var _ warehouse.Artifact = &httpArtifact{}

func (a *httpArtifact) Coord() def.WarehouseCoord { return a.coord }

func (a *httpArtifact) Exists() (bool, error) {
	resp, err := http.Get(a.url)
	if err != nil {
		return false, Errorf(def.ErrWarehouseUnavailable, "could not dial %q: %s", a.coord, err)
	}
	resp.Body.Close()
	switch resp.StatusCode {
	case 200:
		return true, nil
	case 404:
		return false, nil
	default:
		return false, Errorf(def.ErrWarehouseIO, "could not check %q: http status %s", a.coord, resp.Status)
	}
}

func (a *httpArtifact) OpenReader() (io.ReadCloser, error) {
	resp, err := http.Get(a.url)
	if err != nil {
		return nil, Errorf(def.ErrWarehouseUnavailable, "could not dial %q: %s", a.coord, err)
	}
	switch resp.StatusCode {
	case 200:
		return resp.Body, nil
	case 404:
		resp.Body.Close()
		return nil, Errorf(def.ErrArtifactMissing, "no artifact at %q", a.coord)
	default:
		resp.Body.Close()
		return nil, Errorf(def.ErrWarehouseIO, "could not fetch %q: http status %s", a.coord, resp.Status)
	}
}

func (a *httpArtifact) Write(body io.Reader) error {
	return Errorf(def.ErrUsage, "http warehouses are read-only; cannot write %q", a.coord)
}
