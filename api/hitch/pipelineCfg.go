package hitch

import (
	"os"

	. "github.com/warpfork/go-errcat"

	"go.polydawn.net/keepr/api/def"
)

/*
	LoadPipelineCfg reads, parses, and semantically validates a
	pipeline config file.  The config handed back is ready to give to a
	foreman.
*/
func LoadPipelineCfg(path string) (def.PipelineCfg, error) {
	var cfg def.PipelineCfg
	f, err := os.Open(path)
	if err != nil {
		return cfg, Errorf(def.ErrConfigParsing, "could not read pipeline config: %s", err)
	}
	defer f.Close()
	if err := DecodeYaml(f, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
