package codec

/*
	Raw stores bytes as bytes.  No format id, so derived cache paths
	for raw artifacts carry no suffix.
*/
func Raw() Codec[[]byte] {
	return raw{}
}

type raw struct{}

func (raw) Format() string { return "" }

func (raw) Marshal(v []byte) ([]byte, error) { return v, nil }

func (raw) Unmarshal(data []byte) ([]byte, error) { return data, nil }
