package def

import (
	"crypto/sha512"
	"sort"

	"github.com/ugorji/go/codec"
)

/*
	Signature is the deterministic identity of a step: a hash over the
	step's kind name, its parameters, and the signatures of its named
	dependencies.  Two steps with the same signature are the same
	computation; a signature showing up twice across runs or machines
	means the cached artifact may be reused.

	Signatures are opaque.  Compare them, use them as map keys, print
	them; do not parse them.
*/
type Signature string

var hasherFactory = sha512.New384

/*
	DeriveSignature computes a step signature.

	The derivation is deterministic by construction: parameter and
	dependency names are explicitly sorted, the canonical structure is
	cbor-encoded, and the digest is rendered in base58.  Map iteration
	order, declaration order, and host process identity have no
	influence.

	Caveat emptor: the canonical structure is not a blessed public
	format.  It is stable, but we reserve the right to version it; keep
	signatures opaque.
*/
func DeriveSignature(kind string, params map[string]Value, deps map[string]Signature) Signature {
	paramNames := make([]string, 0, len(params))
	for name := range params {
		paramNames = append(paramNames, name)
	}
	sort.Strings(paramNames)
	paramDoc := make([]interface{}, len(paramNames))
	for i, name := range paramNames {
		paramDoc[i] = []interface{}{name, canonValue(params[name])}
	}

	depNames := make([]string, 0, len(deps))
	for name := range deps {
		depNames = append(depNames, name)
	}
	sort.Strings(depNames)
	depDoc := make([]interface{}, len(depNames))
	for i, name := range depNames {
		depDoc[i] = []interface{}{name, string(deps[name])}
	}

	doc := []interface{}{kind, paramDoc, depDoc}
	hasher := hasherFactory()
	codec.NewEncoder(hasher, &codec.CborHandle{}).MustEncode(doc)
	return Signature(B58Encode(hasher.Sum(nil)))
}
