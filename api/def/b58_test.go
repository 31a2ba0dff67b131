package def

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestB58Encode(t *testing.T) {
	Convey("B58Encode should handle the fiddly cases", t, func() {
		Convey("Empty input should produce empty output", func() {
			So(B58Encode(nil), ShouldEqual, "")
		})
		Convey("Leading zero bytes should become leading '1' digits", func() {
			So(B58Encode([]byte{0, 0, 1}), ShouldEqual, "112")
		})
		Convey("Known single bytes should match the btc alphabet", func() {
			So(B58Encode([]byte{0}), ShouldEqual, "1")
			So(B58Encode([]byte{57}), ShouldEqual, "z")
			So(B58Encode([]byte{58}), ShouldEqual, "21")
		})
		Convey("Output should never contain lookalike characters", func() {
			enc := B58Encode([]byte("some unremarkable bytes to encode"))
			So(enc, ShouldNotContainSubstring, "0")
			So(enc, ShouldNotContainSubstring, "O")
			So(enc, ShouldNotContainSubstring, "I")
			So(enc, ShouldNotContainSubstring, "l")
		})
	})
}
