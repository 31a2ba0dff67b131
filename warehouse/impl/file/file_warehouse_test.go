package file_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"testing/iotest"

	. "github.com/smartystreets/goconvey/convey"

	"go.polydawn.net/keepr/api/def"
	"go.polydawn.net/keepr/testutil"
	"go.polydawn.net/keepr/warehouse"
	"go.polydawn.net/keepr/warehouse/impl/file"
	"go.polydawn.net/keepr/warehouse/tests"
)

func dispatcher() *warehouse.Dispatcher {
	files := file.New()
	return warehouse.NewDispatcher(map[string]warehouse.Backend{
		"file":  files,
		"http":  files,
		"https": files,
	})
}

func TestFileWarehouseConformance(t *testing.T) {
	Convey("File warehouse conformance", t, testutil.WithTmpdir(func() {
		resolve := dispatcher().Resolve
		tests.CheckResolveKeepsCoord(resolve, "file://./w/a.bin")
		tests.CheckAbsentBeforeWrite(resolve, "file://./w/absent.bin")
		tests.CheckRoundTrip(resolve, "file://./w/roundtrip.bin")
		tests.CheckRereadFresh(resolve, "file://./w/fresh.bin")
		tests.CheckSiblingIsolation(resolve, "file://./w/sib-a.bin", "file://./w/sib-b.bin")
		tests.CheckMissingReadErrors(resolve, "file://./w/never.bin")
	}))
}

func TestFileWarehouseBehaviors(t *testing.T) {
	Convey("File warehouse specifics", t, testutil.WithTmpdir(func() {
		resolve := dispatcher().Resolve
		Convey("A missing read should carry the artifact-missing category", func() {
			art, err := resolve("file://./w/never.bin")
			So(err, ShouldBeNil)
			_, err = art.OpenReader()
			So(err, testutil.ShouldErrorWith, def.ErrArtifactMissing)
		})
		Convey("A torn write should leave nothing at the final path, and no stage litter", func() {
			art, err := resolve("file://./w/torn.bin")
			So(err, ShouldBeNil)
			body := io.MultiReader(strings.NewReader("partial"), iotest.ErrReader(errors.New("upstream hangup")))
			err = art.Write(body)
			So(err, testutil.ShouldErrorWith, def.ErrWarehouseIO)

			exists, err := art.Exists()
			So(err, ShouldBeNil)
			So(exists, ShouldBeFalse)
			entries, err := os.ReadDir("./w")
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 0)
		})
		Convey("Writes should create parent dirs", func() {
			art, err := resolve("file://./deeply/nested/dirs/x.bin")
			So(err, ShouldBeNil)
			So(art.Write(strings.NewReader("x")), ShouldBeNil)
			exists, err := art.Exists()
			So(err, ShouldBeNil)
			So(exists, ShouldBeTrue)
		})
		Convey("Overwriting is allowed and atomic at the path level", func() {
			art, err := resolve("file://./w/twice.bin")
			So(err, ShouldBeNil)
			So(art.Write(strings.NewReader("one")), ShouldBeNil)
			So(art.Write(strings.NewReader("two")), ShouldBeNil)
			r, err := art.OpenReader()
			So(err, ShouldBeNil)
			defer r.Close()
			back, err := io.ReadAll(r)
			So(err, ShouldBeNil)
			So(string(back), ShouldEqual, "two")
		})
	}))
}

func TestHttpWarehouse(t *testing.T) {
	Convey("Http warehouse", t, func(c C) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/pub/data.txt" {
				io.WriteString(w, "served bytes\n")
				return
			}
			http.NotFound(w, r)
		}))
		Reset(srv.Close)
		resolve := dispatcher().Resolve

		Convey("A served coord should exist and read back", func() {
			art, err := resolve(def.WarehouseCoord(srv.URL + "/pub/data.txt"))
			So(err, ShouldBeNil)
			exists, err := art.Exists()
			So(err, ShouldBeNil)
			So(exists, ShouldBeTrue)
			r, err := art.OpenReader()
			So(err, ShouldBeNil)
			defer r.Close()
			back, err := io.ReadAll(r)
			So(err, ShouldBeNil)
			So(string(back), ShouldEqual, "served bytes\n")
		})
		Convey("A 404 coord should not exist, and reads should miss", func() {
			art, err := resolve(def.WarehouseCoord(srv.URL + "/pub/nope.txt"))
			So(err, ShouldBeNil)
			exists, err := art.Exists()
			So(err, ShouldBeNil)
			So(exists, ShouldBeFalse)
			_, err = art.OpenReader()
			So(err, testutil.ShouldErrorWith, def.ErrArtifactMissing)
		})
		Convey("Writes should be refused", func() {
			art, err := resolve(def.WarehouseCoord(srv.URL + "/pub/data.txt"))
			So(err, ShouldBeNil)
			err = art.Write(strings.NewReader("nope"))
			So(err, testutil.ShouldErrorWith, def.ErrUsage)
		})
	})
}
