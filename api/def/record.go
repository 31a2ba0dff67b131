package def

/*
	StepRecord is the static description of one step as it appears in a
	workflow snapshot: identity, rendered parameters, and the
	signatures of its named dependencies.

	Records are built from declarations alone.  Producing one never
	evaluates anything, which is what lets snapshots be written even
	for runs that failed.
*/
type StepRecord struct {
	Kind      string               `json:"kind"`
	Signature Signature            `json:"signature"`
	Params    map[string]string    `json:"params,omitempty"` // param name -> Describe() rendering
	Deps      map[string]Signature `json:"deps,omitempty"`   // dep name -> upstream signature
	Persisted bool                 `json:"persisted"`
	Artifact  WarehouseCoord       `json:"artifact,omitempty"` // set iff persisted
}

/*
	WorkflowSnapshot is the full audit document for one run: the
	declared target set plus a record for every step reachable from it.

	One of these is written (as json, along with a human-readable
	rendering and a signature manifest) under the `summary/` namespace
	after every run, dry or not, successful or not.
*/
type WorkflowSnapshot struct {
	Title   string       `json:"title"`
	Time    string       `json:"time"`  // RFC3339, UTC
	RunID   string       `json:"runID"`
	Targets []Signature  `json:"targets"` // registry order
	Steps   []StepRecord `json:"steps"`   // sorted by kind, then signature
}
