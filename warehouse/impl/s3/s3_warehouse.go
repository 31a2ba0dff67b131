/*
	S3 warehouse over s3gof3r's streaming transfers, addressed as
	`s3://bucket/path/to/object`.

	Credentials come from the host env (AWS_ACCESS_KEY_ID and
	AWS_SECRET_ACCESS_KEY), loaded at operation time rather than at
	resolve time, so assembling a dispatcher on a machine without creds
	costs nothing until someone actually touches an s3 coord.
*/
package s3

import (
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/rlmcpherson/s3gof3r"
	. "github.com/warpfork/go-errcat"

	"go.polydawn.net/keepr/api/def"
	"go.polydawn.net/keepr/warehouse"
)

var s3Conf = &s3gof3r.Config{
	Concurrency: 10,
	PartSize:    20 * 1024 * 1024,
	NTry:        10,
	Md5Check:    false,
	Scheme:      "https",
	Client:      s3gof3r.ClientWithTimeout(15 * time.Second),
}

const s3Domain = "s3.amazonaws.com"

type Backend struct{}

var _ warehouse.Backend = Backend{}

func New() Backend {
	return Backend{}
}

func (Backend) Resolve(u *url.URL) (warehouse.Artifact, error) {
	if u.Scheme != "s3" {
		return nil, Errorf(def.ErrConfigInvalid, "s3 warehouse cannot serve scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, Errorf(def.ErrConfigInvalid, "s3 warehouse URIs name a bucket, e.g. \"s3://bucket/some/path\"")
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return nil, Errorf(def.ErrConfigInvalid, "s3 warehouse URI %q needs an object path inside the bucket", u.String())
	}
	return &s3Artifact{
		coord:      def.WarehouseCoord(u.String()),
		bucketName: u.Host,
		key:        key,
	}, nil
}

type s3Artifact struct {
	coord      def.WarehouseCoord
	bucketName string
	key        string
}

var _ warehouse.Artifact = &s3Artifact{}

func (a *s3Artifact) Coord() def.WarehouseCoord { return a.coord }

func (a *s3Artifact) bucket() (*s3gof3r.Bucket, error) {
	keys, err := s3gof3r.EnvKeys()
	if err != nil {
		return nil, Errorf(def.ErrConfigInvalid, "s3 credentials missing.  set AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.")
	}
	return s3gof3r.New(s3Domain, keys).Bucket(a.bucketName), nil
}

func isNoSuchKey(err error) bool {
	respErr, ok := err.(*s3gof3r.RespError)
	return ok && (respErr.Code == "NoSuchKey" || respErr.StatusCode == 404)
}

// s3gof3r offers no stat call; probe by opening and immediately closing.
func (a *s3Artifact) Exists() (bool, error) {
	bkt, err := a.bucket()
	if err != nil {
		return false, err
	}
	r, _, err := bkt.GetReader(a.key, s3Conf)
	switch {
	case err == nil:
		r.Close()
		return true, nil
	case isNoSuchKey(err):
		return false, nil
	default:
		return false, Errorf(def.ErrWarehouseIO, "could not check %q: %s", a.coord, err)
	}
}

func (a *s3Artifact) OpenReader() (io.ReadCloser, error) {
	bkt, err := a.bucket()
	if err != nil {
		return nil, err
	}
	r, _, err := bkt.GetReader(a.key, s3Conf)
	switch {
	case err == nil:
		return r, nil
	case isNoSuchKey(err):
		return nil, Errorf(def.ErrArtifactMissing, "no artifact at %q", a.coord)
	default:
		return nil, Errorf(def.ErrWarehouseIO, "could not fetch %q: %s", a.coord, err)
	}
}

// Object puts land atomically on their key, so no staging dance here.
func (a *s3Artifact) Write(body io.Reader) error {
	bkt, err := a.bucket()
	if err != nil {
		return err
	}
	w, err := bkt.PutWriter(a.key, nil, s3Conf)
	if err != nil {
		return Errorf(def.ErrWarehouseIO, "could not start upload to %q: %s", a.coord, err)
	}
	if _, err := io.Copy(w, body); err != nil {
		w.Close()
		return Errorf(def.ErrWarehouseIO, "could not write %q: %s", a.coord, err)
	}
	// this close does the real commit work; errors here mean the
	// upload did not land.
	if err := w.Close(); err != nil {
		return Errorf(def.ErrWarehouseIO, "could not commit %q: %s", a.coord, err)
	}
	return nil
}
