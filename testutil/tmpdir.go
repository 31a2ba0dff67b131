package testutil

import (
	"os"
	"path/filepath"

	"github.com/smartystreets/goconvey/convey"
)

/*
	Decorates a goconvey test with a tmpdir: the decorated block runs
	chdir'd into a fresh directory, which is removed again on reset.

	See https://github.com/smartystreets/goconvey/wiki/Decorating-tests-to-provide-common-logic
*/
func WithTmpdir(fn interface{}) func(c convey.C) {
	return func(c convey.C) {
		retreat, err := os.Getwd()
		if err != nil {
			panic(err)
		}
		convey.Reset(func() {
			os.Chdir(retreat)
		})

		tmpBase := filepath.Join(os.TempDir(), "keepr-test")
		if err := os.MkdirAll(tmpBase, os.FileMode(0755)|os.ModeSticky); err != nil {
			panic(err)
		}
		tmpdir, err := os.MkdirTemp(tmpBase, "")
		if err != nil {
			panic(err)
		}
		tmpdir, err = filepath.Abs(tmpdir)
		if err != nil {
			panic(err)
		}
		convey.Reset(func() {
			os.RemoveAll(tmpdir)
		})
		if err := os.Chdir(tmpdir); err != nil {
			panic(err)
		}

		switch fn := fn.(type) {
		case func():
			fn()
		case func(c convey.C):
			fn(c)
		}
	}
}
