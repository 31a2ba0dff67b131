package hitch

import (
	"os"

	. "github.com/warpfork/go-errcat"

	"go.polydawn.net/keepr/api/def"
)

/*
	LoadSnapshot reads a workflow snapshot document, as written under a
	run's `summary/` namespace.  No semantic validation is applied;
	snapshots are descriptive, and old ones deserve to stay readable.
*/
func LoadSnapshot(path string) (def.WorkflowSnapshot, error) {
	var snap def.WorkflowSnapshot
	f, err := os.Open(path)
	if err != nil {
		return snap, Errorf(def.ErrConfigParsing, "could not read snapshot: %s", err)
	}
	defer f.Close()
	if err := DecodeYaml(f, &snap); err != nil {
		return snap, err
	}
	return snap, nil
}
