package hitch

import (
	"os"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"go.polydawn.net/keepr/api/def"
	"go.polydawn.net/keepr/testutil"
)

func TestDecodeYaml(t *testing.T) {
	Convey("DecodeYaml should accept the formats people actually write", t, func() {
		Convey("plain yaml", func() {
			doc := strings.Join([]string{
				"title: nightly",
				"outputRoot: mem://vol/out",
				"steps:",
				"  One:",
				"    persist: none",
				"run:",
				"  mode: only",
				"  only:",
				"    - One",
			}, "\n")
			var cfg def.PipelineCfg
			So(DecodeYaml(strings.NewReader(doc), &cfg), ShouldBeNil)
			So(cfg.Title, ShouldEqual, "nightly")
			So(cfg.OutputRoot, ShouldEqual, def.WarehouseCoord("mem://vol/out"))
			So(cfg.Steps["One"].Persist, ShouldEqual, def.PersistNone)
			So(cfg.Run.Mode, ShouldEqual, def.RunModeOnly)
			So(cfg.Run.Only, ShouldResemble, []string{"One"})
		})
		Convey("yaml indented with tabs", func() {
			doc := "title: nightly\noutputRoot: mem://vol/out\nrun:\n\tmode: dry\n"
			var cfg def.PipelineCfg
			So(DecodeYaml(strings.NewReader(doc), &cfg), ShouldBeNil)
			So(cfg.Run.Mode, ShouldEqual, def.RunModeDry)
		})
		Convey("json, since json is yaml", func() {
			doc := `{"title": "nightly", "outputRoot": "mem://vol/out", "run": {"mode": "full"}}`
			var cfg def.PipelineCfg
			So(DecodeYaml(strings.NewReader(doc), &cfg), ShouldBeNil)
			So(cfg.Title, ShouldEqual, "nightly")
			So(cfg.Run.Mode, ShouldEqual, def.RunModeFull)
		})
		Convey("garbage should error with the parsing category", func() {
			var cfg def.PipelineCfg
			err := DecodeYaml(strings.NewReader(":\n:::\n\t::"), &cfg)
			So(err, testutil.ShouldErrorWith, def.ErrConfigParsing)
		})
	})
}

func TestLoadPipelineCfg(t *testing.T) {
	Convey("Given config files on disk", t, testutil.WithTmpdir(func() {
		Convey("a valid one should load and validate", func() {
			doc := "title: nightly\noutputRoot: mem://vol/out\n"
			So(os.WriteFile("pipeline.yaml", []byte(doc), 0644), ShouldBeNil)
			cfg, err := LoadPipelineCfg("pipeline.yaml")
			So(err, ShouldBeNil)
			So(cfg.Title, ShouldEqual, "nightly")
		})
		Convey("semantic violations should carry the config category", func() {
			doc := strings.Join([]string{
				"title: nightly",
				"outputRoot: mem://vol/out",
				"steps:",
				"  One:",
				"    persist: path",
			}, "\n")
			So(os.WriteFile("pipeline.yaml", []byte(doc), 0644), ShouldBeNil)
			_, err := LoadPipelineCfg("pipeline.yaml")
			So(err, testutil.ShouldErrorWith, def.ErrConfigInvalid)
		})
		Convey("a missing file should carry the parsing category", func() {
			_, err := LoadPipelineCfg("nosuch.yaml")
			So(err, testutil.ShouldErrorWith, def.ErrConfigParsing)
		})
	}))
}

func TestLoadSnapshot(t *testing.T) {
	Convey("Given a snapshot document on disk", t, testutil.WithTmpdir(func() {
		doc := `{
			"title": "nightly",
			"time": "2019-03-14T04:05:06Z",
			"runID": "r1",
			"targets": ["sigA"],
			"steps": [
				{"kind": "One", "signature": "sigA", "persisted": true, "artifact": "mem://vol/out/data/One.sigA.json"}
			]
		}`
		So(os.WriteFile("snap.graph.json", []byte(doc), 0644), ShouldBeNil)

		Convey("it should load", func() {
			snap, err := LoadSnapshot("snap.graph.json")
			So(err, ShouldBeNil)
			So(snap.Title, ShouldEqual, "nightly")
			So(snap.RunID, ShouldEqual, "r1")
			So(snap.Targets, ShouldResemble, []def.Signature{"sigA"})
			So(snap.Steps, ShouldHaveLength, 1)
			So(snap.Steps[0].Kind, ShouldEqual, "One")
			So(snap.Steps[0].Persisted, ShouldBeTrue)
			So(snap.Steps[0].Artifact, ShouldEqual, def.WarehouseCoord("mem://vol/out/data/One.sigA.json"))
		})
	}))
}
