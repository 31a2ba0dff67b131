/*
	Stock dispatcher assembly.  Pipelines that want a different scheme
	set (or several isolated mem backends) build their own
	warehouse.NewDispatcher; this is just the everything-wired default.
*/
package dispatch

import (
	"go.polydawn.net/keepr/warehouse"
	"go.polydawn.net/keepr/warehouse/impl/file"
	"go.polydawn.net/keepr/warehouse/impl/mem"
	"go.polydawn.net/keepr/warehouse/impl/s3"
)

/*
	Default returns a dispatcher serving every scheme this project
	ships: "file", read-only "http" and "https", "mem", and "s3".

	Each call returns fresh state; in particular, mem volumes are never
	shared between two Default() dispatchers.
*/
func Default() *warehouse.Dispatcher {
	files := file.New()
	return warehouse.NewDispatcher(map[string]warehouse.Backend{
		"file":  files,
		"http":  files,
		"https": files,
		"mem":   mem.New(),
		"s3":    s3.New(),
	})
}
