package produce

import (
	"bytes"
	"sort"
	"strings"

	"github.com/polydawn/gosh"
	. "github.com/warpfork/go-errcat"

	"go.polydawn.net/keepr/api/def"
)

/*
	Cmd constructs a step that runs a command and produces its stdout
	as a string.

	The argv and env are params, so editing either changes the step's
	signature and re-running the pipeline re-executes the command
	instead of serving stale cached output.  The command runs with
	exactly the given env and nothing else: ambient env vars are
	invisible to the signature, so they are kept invisible to the
	command too.  (The binary itself is resolved against the parent's
	PATH; pin an absolute path if that matters to you.)

	A nonzero exit is an evaluation-category error carrying the exit
	code and the command's stderr.
*/
func Cmd(kind string, argv []string, env map[string]string, opts ...Option) (Producer[string], error) {
	if len(argv) == 0 {
		return nil, Errorf(def.ErrUsage, "step %q: command argv may not be empty", kind)
	}
	argv = append([]string(nil), argv...)
	env2 := make(map[string]string, len(env))
	for k, v := range env {
		env2[k] = v
	}

	argvVals := make(def.List, len(argv))
	for i, s := range argv {
		argvVals[i] = def.String(s)
	}
	all := []Option{WithParam("argv", argvVals)}
	if len(env2) > 0 {
		keys := make([]string, 0, len(env2))
		for k := range env2 {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		envVals := make(def.List, len(keys))
		for i, k := range keys {
			envVals[i] = def.String(k + "=" + env2[k])
		}
		all = append(all, WithParam("env", envVals))
	}
	all = append(all, opts...)

	return New(kind, func() (string, error) {
		return runCmd(kind, argv, env2)
	}, all...)
}

func runCmd(kind string, argv []string, env map[string]string) (_ string, err error) {
	// gosh reports launch problems by panic; fold those into the same
	// error channel exit codes use.
	defer func() {
		if r := recover(); r != nil {
			err = Errorf(def.ErrEvaluationFailed, "step %q: command failed to launch: %s", kind, r)
		}
	}()

	var stdout, stderr bytes.Buffer
	args := make([]interface{}, 0, len(argv)+2)
	for _, s := range argv {
		args = append(args, s)
	}
	args = append(args, gosh.NullIO, gosh.Opts{
		Env:    env,
		Out:    &stdout,
		Err:    &stderr,
		OkExit: gosh.AnyExit,
	})
	code := gosh.Gosh(args...).Run().GetExitCode()
	if code != 0 {
		return "", Errorf(def.ErrEvaluationFailed,
			"step %q: command exited %d: %s",
			kind, code, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
