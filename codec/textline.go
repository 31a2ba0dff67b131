package codec

import (
	"strings"

	"github.com/warpfork/go-errcat"

	"go.polydawn.net/keepr/api/def"
)

/*
	TextLine stores a string as a single newline-terminated line.
	Strings that themselves contain newlines don't fit the format and
	are refused at marshal time.
*/
func TextLine() Codec[string] {
	return textLine{}
}

type textLine struct{}

var _ Codec[string] = textLine{}

func (textLine) Format() string { return "txt" }

func (textLine) Marshal(v string) ([]byte, error) {
	if strings.Contains(v, "\n") {
		return nil, errcat.Errorf(def.ErrUsage, "textline codec: value contains a newline; use another codec for multiline strings")
	}
	return []byte(v + "\n"), nil
}

func (textLine) Unmarshal(data []byte) (string, error) {
	return strings.TrimSuffix(string(data), "\n"), nil
}
