package codec_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"go.polydawn.net/keepr/api/def"
	"go.polydawn.net/keepr/codec"
	"go.polydawn.net/keepr/testutil"
)

func TestTextLine(t *testing.T) {
	Convey("TextLine codec", t, func() {
		c := codec.TextLine()
		Convey("Values should round-trip with a trailing newline on disk", func() {
			raw, err := c.Marshal("47")
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, "47\n")
			back, err := c.Unmarshal(raw)
			So(err, ShouldBeNil)
			So(back, ShouldEqual, "47")
		})
		Convey("Multiline strings should be refused", func() {
			_, err := c.Marshal("one\ntwo")
			So(err, testutil.ShouldErrorWith, def.ErrUsage)
		})
		Convey("Unterminated input should still unmarshal", func() {
			back, err := c.Unmarshal([]byte("47"))
			So(err, ShouldBeNil)
			So(back, ShouldEqual, "47")
		})
	})
}

func TestJSON(t *testing.T) {
	Convey("JSON codec", t, func() {
		Convey("Ints should round-trip", func() {
			c := codec.JSON[int]()
			raw, err := c.Marshal(47)
			So(err, ShouldBeNil)
			back, err := c.Unmarshal(raw)
			So(err, ShouldBeNil)
			So(back, ShouldEqual, 47)
		})
		Convey("Structs should round-trip", func() {
			type row struct {
				Name  string `json:"name"`
				Count int    `json:"count"`
			}
			c := codec.JSON[row]()
			raw, err := c.Marshal(row{"tidy", 3})
			So(err, ShouldBeNil)
			back, err := c.Unmarshal(raw)
			So(err, ShouldBeNil)
			So(back, ShouldResemble, row{"tidy", 3})
		})
		Convey("Map encoding should be canonical", func() {
			c := codec.JSON[map[string]int]()
			a := map[string]int{}
			a["x"] = 1
			a["y"] = 2
			a["z"] = 3
			b := map[string]int{}
			b["z"] = 3
			b["y"] = 2
			b["x"] = 1
			rawA, err := c.Marshal(a)
			So(err, ShouldBeNil)
			rawB, err := c.Marshal(b)
			So(err, ShouldBeNil)
			So(string(rawA), ShouldEqual, string(rawB))
		})
		Convey("Garbage should error", func() {
			c := codec.JSON[int]()
			_, err := c.Unmarshal([]byte("}{"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRaw(t *testing.T) {
	Convey("Raw codec", t, func() {
		c := codec.Raw()
		raw, err := c.Marshal([]byte{0, 1, 2})
		So(err, ShouldBeNil)
		back, err := c.Unmarshal(raw)
		So(err, ShouldBeNil)
		So(back, ShouldResemble, []byte{0, 1, 2})
		So(c.Format(), ShouldEqual, "")
	})
}

func TestFormatIdsDistinct(t *testing.T) {
	Convey("Format ids should be distinct per codec family", t, func() {
		So(codec.TextLine().Format(), ShouldNotEqual, codec.JSON[string]().Format())
	})
}
