package produce

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"go.polydawn.net/keepr/api/def"
	"go.polydawn.net/keepr/testutil"
)

func TestCmdSteps(t *testing.T) {
	Convey("Given command steps", t, func() {
		Convey("an empty argv should be refused", func() {
			_, err := Cmd("silence", nil, nil)
			So(err, testutil.ShouldErrorWith, def.ErrUsage)
		})
		Convey("stdout should become the value", func() {
			n, err := Cmd("greet", []string{"echo", "hi"}, nil)
			So(err, ShouldBeNil)
			v, err := n.Get()
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "hi\n")
		})
		Convey("the declared env should be the whole env", func() {
			n, err := Cmd("peek",
				[]string{"sh", "-c", `printf "%s" "$KEEPR_SMOKE"`},
				map[string]string{"KEEPR_SMOKE": "zing"})
			So(err, ShouldBeNil)
			v, err := n.Get()
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "zing")

			Convey("and ambient vars should not leak in", func() {
				t.Setenv("KEEPR_SMOKE", "leaky")
				bare, err := Cmd("peek2",
					[]string{"sh", "-c", `printf "%s" "$KEEPR_SMOKE"`},
					nil)
				So(err, ShouldBeNil)
				v, err := bare.Get()
				So(err, ShouldBeNil)
				So(v, ShouldEqual, "")
			})
		})
		Convey("a nonzero exit should be an evaluation error", func() {
			n, err := Cmd("kaboom", []string{"sh", "-c", "echo boom >&2; exit 12"}, nil)
			So(err, ShouldBeNil)
			_, err = n.Get()
			So(err, testutil.ShouldErrorWith, def.ErrEvaluationFailed)
			So(err.Error(), ShouldContainSubstring, "12")
			So(err.Error(), ShouldContainSubstring, "boom")
		})
		Convey("an unlaunchable command should be an evaluation error", func() {
			n, err := Cmd("ghost", []string{"/somewhere/that/does/not/exist"}, nil)
			So(err, ShouldBeNil)
			_, err = n.Get()
			So(err, testutil.ShouldErrorWith, def.ErrEvaluationFailed)
		})
	})
}

func TestCmdIdentity(t *testing.T) {
	Convey("Command identity should cover argv and env", t, func() {
		mk := func(argv []string, env map[string]string) def.Signature {
			n, err := Cmd("run", argv, env)
			So(err, ShouldBeNil)
			return n.Signature()
		}
		Convey("argv should matter", func() {
			So(mk([]string{"echo", "hi"}, nil), ShouldNotEqual, mk([]string{"echo", "ho"}, nil))
		})
		Convey("argv word boundaries should matter", func() {
			So(mk([]string{"echo", "a b"}, nil), ShouldNotEqual, mk([]string{"echo", "a", "b"}, nil))
		})
		Convey("env should matter", func() {
			So(
				mk([]string{"echo"}, map[string]string{"A": "1"}),
				ShouldNotEqual,
				mk([]string{"echo"}, map[string]string{"A": "2"}),
			)
		})
		Convey("env iteration order should not", func() {
			So(
				mk([]string{"echo"}, map[string]string{"A": "1", "B": "2", "C": "3", "D": "4"}),
				ShouldEqual,
				mk([]string{"echo"}, map[string]string{"D": "4", "C": "3", "B": "2", "A": "1"}),
			)
		})
		Convey("extra options should still apply", func() {
			a, err := Cmd("run", []string{"echo"}, nil, WithParam("salt", def.Int(1)))
			So(err, ShouldBeNil)
			b, err := Cmd("run", []string{"echo"}, nil, WithParam("salt", def.Int(2)))
			So(err, ShouldBeNil)
			So(a.Signature(), ShouldNotEqual, b.Signature())
		})
	})
}
