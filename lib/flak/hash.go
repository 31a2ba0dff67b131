package flak

import (
	"hash"
	"io"
)

/*
	Proxies a reader, feeding everything read into a hasher as a side
	effect.  Useful when one pass over a stream should produce both the
	bytes and their digest, and wrapping the destination in a
	multiwriter isn't an option.
*/
type HashingReader struct {
	R io.Reader
	H hash.Hash
}

func (hr *HashingReader) Read(b []byte) (int, error) {
	n, err := hr.R.Read(b)
	hr.H.Write(b[:n])
	return n, err
}
