package main

import (
	"fmt"
	"io"

	"go.polydawn.net/keepr/api/hitch"
	"go.polydawn.net/keepr/core/report"
)

/*
	Renders a workflow snapshot document to text.  Purely a read: no
	warehouse is touched and nothing is evaluated.
*/
func ExamineCmd(path string, stdout io.Writer) error {
	snap, err := hitch.LoadSnapshot(path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(stdout, report.RenderText(snap))
	return err
}
