package s3_test

import (
	"os"
	"testing"

	"github.com/rlmcpherson/s3gof3r"
	. "github.com/smartystreets/goconvey/convey"

	"go.polydawn.net/keepr/api/def"
	"go.polydawn.net/keepr/lib/guid"
	"go.polydawn.net/keepr/testutil"
	"go.polydawn.net/keepr/warehouse"
	"go.polydawn.net/keepr/warehouse/impl/s3"
	"go.polydawn.net/keepr/warehouse/tests"
)

func dispatcher() *warehouse.Dispatcher {
	return warehouse.NewDispatcher(map[string]warehouse.Backend{
		"s3": s3.New(),
	})
}

func TestS3WarehouseConformance(t *testing.T) {
	if _, err := s3gof3r.EnvKeys(); err != nil {
		t.Skipf("skipping s3 warehouse tests; no s3 credentials loaded (err: %s)", err)
	}
	bucket := os.Getenv("KEEPR_TEST_S3_BUCKET")
	if bucket == "" {
		t.Skipf("skipping s3 warehouse tests; set KEEPR_TEST_S3_BUCKET to a writable bucket")
	}

	// group all effects of this test run under one prefix for human
	// reader sanity and cleanup in extremis.
	prefix := "s3://" + bucket + "/keepr-test/" + guid.New()

	Convey("S3 warehouse conformance", t, func() {
		resolve := dispatcher().Resolve
		tests.CheckResolveKeepsCoord(resolve, def.WarehouseCoord(prefix+"/a.bin"))
		tests.CheckAbsentBeforeWrite(resolve, def.WarehouseCoord(prefix+"/absent.bin"))
		tests.CheckRoundTrip(resolve, def.WarehouseCoord(prefix+"/roundtrip.bin"))
		tests.CheckRereadFresh(resolve, def.WarehouseCoord(prefix+"/fresh.bin"))
		tests.CheckSiblingIsolation(resolve, def.WarehouseCoord(prefix+"/sib-a.bin"), def.WarehouseCoord(prefix+"/sib-b.bin"))
		tests.CheckMissingReadErrors(resolve, def.WarehouseCoord(prefix+"/never.bin"))
	})
}

func TestS3CoordValidation(t *testing.T) {
	Convey("S3 warehouse coord validation", t, func() {
		resolve := dispatcher().Resolve
		Convey("A coord with no bucket should be refused", func() {
			_, err := resolve("s3:///just/a/path")
			So(err, testutil.ShouldErrorWith, def.ErrConfigInvalid)
		})
		Convey("A coord with no object path should be refused", func() {
			_, err := resolve("s3://bucket")
			So(err, testutil.ShouldErrorWith, def.ErrConfigInvalid)
		})
	})
}
