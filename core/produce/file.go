package produce

import (
	"crypto/sha512"
	"io"
	"os"

	. "github.com/warpfork/go-errcat"

	"go.polydawn.net/keepr/api/def"
	"go.polydawn.net/keepr/lib/flak"
)

/*
	File constructs a leaf step producing the contents of a local file.

	The file is read and hashed at declaration time, and the hash is a
	param: editing the file changes this step's signature and therefore
	every downstream signature, which is what makes files honest inputs
	to an incremental pipeline.  Get re-reads the file and re-verifies
	the hash, so a file that changed between declaration and evaluation
	surfaces as a hash-mismatch error instead of quietly feeding two
	versions into one run.

	A file that cannot be read at declaration time is a usage-category
	construction error.
*/
func File(kind string, path string, opts ...Option) (Producer[[]byte], error) {
	if path == "" {
		return nil, Errorf(def.ErrUsage, "step %q: file path may not be empty", kind)
	}
	hash, err := hashFile(kind, path)
	if err != nil {
		return nil, err
	}
	all := append([]Option{
		WithParam("path", def.String(path)),
		WithParam("hash", def.String(hash)),
	}, opts...)
	return New(kind, func() ([]byte, error) {
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, Errorf(def.ErrEvaluationFailed, "step %q: reading %q: %s", kind, path, err)
		}
		digest := sha512.Sum384(body)
		if sum := def.B58Encode(digest[:]); sum != hash {
			return nil, Errorf(def.ErrHashMismatch,
				"step %q: file %q changed since declaration: content hash %s, expected %s",
				kind, path, sum, hash)
		}
		return body, nil
	}, all...)
}

func hashFile(kind string, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", Errorf(def.ErrUsage, "step %q: cannot hash %q: %s", kind, path, err)
	}
	defer f.Close()
	hr := &flak.HashingReader{R: f, H: sha512.New384()}
	if _, err := io.Copy(io.Discard, hr); err != nil {
		return "", Errorf(def.ErrUsage, "step %q: cannot hash %q: %s", kind, path, err)
	}
	return def.B58Encode(hr.H.Sum(nil)), nil
}
