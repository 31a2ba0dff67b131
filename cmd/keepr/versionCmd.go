package main

import (
	"fmt"
	"io"

	"go.polydawn.net/keepr/cmd/keepr/version"
)

func VersionCmd(stdout io.Writer) error {
	fmt.Fprintf(stdout, "keepr %s\n", version.Release)
	fmt.Fprintf(stdout, "  commit: %s\n", version.GitCommit)
	fmt.Fprintf(stdout, "  built:  %s\n", version.BuildDate)
	return nil
}
