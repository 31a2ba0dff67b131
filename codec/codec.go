/*
	Package codec translates step values to and from bytes for
	persistence.

	A codec's format id doubles as the synthetic suffix on derived
	cache paths; that's how the same logical computation persisted
	through two different codecs lands at two different physical
	paths without perturbing the signature.  A codec may declare an
	empty format id, in which case derived paths simply carry no
	suffix.
*/
package codec

type Codec[T any] interface {
	// Format returns the stable format id ("json", "txt", ...).
	Format() string

	Marshal(v T) ([]byte, error)
	Unmarshal(data []byte) (T, error)
}
