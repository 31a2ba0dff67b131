/*
	Package hitch loads the serial documents the engine traffics in:
	pipeline configs and workflow snapshots.

	Input is yaml, which makes json acceptable too.  Decoding bounces
	through an in-memory cbor intermediate so that one set of codec
	machinery (and one set of struct tags) serves every format.
*/
package hitch

import (
	"bytes"
	"io"

	ucodec "github.com/ugorji/go/codec"
	. "github.com/warpfork/go-errcat"
	"gopkg.in/yaml.v2"

	"go.polydawn.net/keepr/api/def"
	"go.polydawn.net/keepr/lib/cereal"
)

var bounceHandler = &ucodec.CborHandle{}

/*
	DecodeYaml decodes a yaml (or json) stream into an object,
	specifically meant for use with structs from the `def` package.

	Errors carry the config-parsing category regardless of which layer
	tripped: the caller asked for a document and did not get one, and
	the message keeps the details.
*/
func DecodeYaml(input io.Reader, val interface{}) error {
	// Buffer the entire thing; it gets flipped back and forth anyway.
	byts, err := io.ReadAll(input)
	if err != nil {
		return Errorf(def.ErrConfigParsing, "could not read config: %s", err)
	}

	// Tabs as indentation are acceptable input.
	byts = cereal.Tab2space(byts)

	var raw interface{}
	if err := yaml.Unmarshal(byts, &raw); err != nil {
		return Errorf(def.ErrConfigParsing, "could not parse config: %s", err)
	}
	raw = cereal.StringifyMapKeys(raw)

	// Bounce through an intermediate the smart codecs understand,
	// since they have no mechanism to accept in-memory trees directly.
	var buf bytes.Buffer
	if err := ucodec.NewEncoder(&buf, bounceHandler).Encode(raw); err != nil {
		return Errorf(def.ErrConfigParsing, "could not parse config: %s", err)
	}
	if err := ucodec.NewDecoder(&buf, bounceHandler).Decode(val); err != nil {
		return Errorf(def.ErrConfigParsing, "could not parse config: %s", err)
	}
	return nil
}
