/*
	Shared conformance checks for warehouse backends.  Each backend's
	test package calls these inside its own Convey block, handing over
	a resolver and coords appropriate to its scheme.
*/
package tests

import (
	"bytes"
	"io"
	"strings"

	. "github.com/smartystreets/goconvey/convey"

	"go.polydawn.net/keepr/api/def"
	"go.polydawn.net/keepr/warehouse"
)

type ResolveFn func(def.WarehouseCoord) (warehouse.Artifact, error)

func CheckResolveKeepsCoord(resolve ResolveFn, coord def.WarehouseCoord) {
	Convey("Resolving should retain the user's coord string", func() {
		art, err := resolve(coord)
		So(err, ShouldBeNil)
		So(art.Coord(), ShouldEqual, coord)
	})
}

func CheckAbsentBeforeWrite(resolve ResolveFn, coord def.WarehouseCoord) {
	Convey("A never-written coord should not exist", func() {
		art, err := resolve(coord)
		So(err, ShouldBeNil)
		exists, err := art.Exists()
		So(err, ShouldBeNil)
		So(exists, ShouldBeFalse)
	})
}

func CheckRoundTrip(resolve ResolveFn, coord def.WarehouseCoord) {
	Convey("Write then read should round-trip", func() {
		art, err := resolve(coord)
		So(err, ShouldBeNil)
		body := "some bytes that want to live forever\n"
		So(art.Write(strings.NewReader(body)), ShouldBeNil)

		exists, err := art.Exists()
		So(err, ShouldBeNil)
		So(exists, ShouldBeTrue)

		r, err := art.OpenReader()
		So(err, ShouldBeNil)
		defer r.Close()
		back, err := io.ReadAll(r)
		So(err, ShouldBeNil)
		So(string(back), ShouldEqual, body)
	})
}

func CheckRereadFresh(resolve ResolveFn, coord def.WarehouseCoord) {
	Convey("A second resolve of the same coord should see the same bytes", func() {
		art1, err := resolve(coord)
		So(err, ShouldBeNil)
		So(art1.Write(bytes.NewReader([]byte{1, 2, 3})), ShouldBeNil)

		art2, err := resolve(coord)
		So(err, ShouldBeNil)
		r, err := art2.OpenReader()
		So(err, ShouldBeNil)
		defer r.Close()
		back, err := io.ReadAll(r)
		So(err, ShouldBeNil)
		So(back, ShouldResemble, []byte{1, 2, 3})
	})
}

func CheckSiblingIsolation(resolve ResolveFn, coordA, coordB def.WarehouseCoord) {
	Convey("Writing one coord should not conjure its sibling", func() {
		artA, err := resolve(coordA)
		So(err, ShouldBeNil)
		So(artA.Write(strings.NewReader("a")), ShouldBeNil)

		artB, err := resolve(coordB)
		So(err, ShouldBeNil)
		exists, err := artB.Exists()
		So(err, ShouldBeNil)
		So(exists, ShouldBeFalse)
	})
}

func CheckMissingReadErrors(resolve ResolveFn, coord def.WarehouseCoord) {
	Convey("Reading a never-written coord should error as missing", func() {
		art, err := resolve(coord)
		So(err, ShouldBeNil)
		_, err = art.OpenReader()
		So(err, ShouldNotBeNil)
	})
}
