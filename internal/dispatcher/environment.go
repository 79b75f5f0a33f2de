package dispatcher

import (
	"strings"
	"time"

	"tskpipe/internal/expand"
	"tskpipe/internal/extractor"
)

// baseEnvironment seeds the per-invocation Environment bindings listed in
// spec.md §4.2: FILE, OUTDIR, PARENT, ENTRYPATH, FILENAME, USERNAME, TIME,
// DATE, plus DIR_<TOOL> for every configured tool directory. $HASH is a
// supplemental binding (SPEC_FULL.md §4) carrying the artifact's xxh3
// checksum.
func (d *Dispatcher) baseEnvironment(a extractor.Artifact, now time.Time) expand.Environment {
	env := expand.NewEnvironment()
	env = env.With("FILE", a.HostPath)
	env = env.With("OUTDIR", d.outdir)
	env = env.With("PARENT", a.ParentHostPath)
	env = env.With("ENTRYPATH", a.EntryPath())
	env = env.With("FILENAME", a.LeafName)
	env = env.With("USERNAME", a.Username)
	env = env.With("TIME", now.Format("15.04.05"))
	env = env.With("DATE", now.Format("2006-01-02"))
	env = env.With("HASH", a.Hash)
	for tool, dir := range d.registry.Directories() {
		env = env.With("DIR_"+strings.ToUpper(tool), dir)
	}
	return env
}

// withExtra binds each supplied extra-arg as its uppercase name (spec.md
// §4.2: "<ARG> for every supplied extra argument").
func withExtra(env expand.Environment, extra map[string]string) expand.Environment {
	for k, v := range extra {
		env = env.With(strings.ToUpper(k), v)
	}
	return env
}
