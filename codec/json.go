package codec

import (
	ucodec "github.com/ugorji/go/codec"
)

// Canonical, so marshalling a map twice yields identical bytes.
var jsonHandle = func() *ucodec.JsonHandle {
	h := &ucodec.JsonHandle{}
	h.Canonical = true
	return h
}()

/*
	JSON stores any serializable value as canonical json.  This is the
	codec to reach for unless you have a reason not to.
*/
func JSON[T any]() Codec[T] {
	return jsonCodec[T]{}
}

type jsonCodec[T any] struct{}

func (jsonCodec[T]) Format() string { return "json" }

func (jsonCodec[T]) Marshal(v T) ([]byte, error) {
	var buf []byte
	err := ucodec.NewEncoderBytes(&buf, jsonHandle).Encode(v)
	return buf, err
}

func (jsonCodec[T]) Unmarshal(data []byte) (T, error) {
	var v T
	err := ucodec.NewDecoderBytes(data, jsonHandle).Decode(&v)
	return v, err
}
