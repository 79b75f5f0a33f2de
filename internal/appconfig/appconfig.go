// Package appconfig resolves runtime options by layering defaults, the
// TSKPIPE_* environment variables, and CLI flag overrides, in that order of
// increasing precedence — the same defaults→env→flags shape as
// internal/config/resolver.go in the harvx example, built on the same
// koanf(".") + confmap.Provider primitives (SPEC_FULL.md §2.2).
package appconfig

import (
	"os"
	"strconv"

	"github.com/knadh/koanf/providers/confmap"
	koanf "github.com/knadh/koanf/v2"
)

// envPrefix names the environment variables this package reads, after the
// teacher's envConfigDir/envRegistryDirs convention (cmd/devshell/config.go):
// upper-cased app name, underscore, option name.
const envPrefix = "TSKPIPE_"

// Options is the fully resolved set of runtime options (spec.md §6).
type Options struct {
	ToolConfigPath string
	OutdirRoot     string
	CaseSensitive  bool
	BinDir         string
	SectorSize     int
}

// Defaults returns the built-in default layer (spec.md §6: "extracted"
// output dir, "config.yaml" tool-config path, case-insensitive matching).
func Defaults() Options {
	return Options{
		ToolConfigPath: "config.yaml",
		OutdirRoot:     "extracted",
		CaseSensitive:  false,
		BinDir:         "",
		SectorSize:     512,
	}
}

// CLIOverrides holds the flag values a cobra command collected; a field is
// applied only when its "set" companion is true, so an unset flag never
// shadows the environment layer beneath it.
type CLIOverrides struct {
	ToolConfigPath      string
	ToolConfigPathSet   bool
	OutdirRoot          string
	OutdirRootSet       bool
	CaseSensitive       bool
	CaseSensitiveSet    bool
	BinDir              string
	BinDirSet           bool
	SectorSize          int
	SectorSizeSet       bool
}

// Resolve layers Defaults() under the TSKPIPE_* environment variables under
// cli, in ascending precedence (SPEC_FULL.md §2.2).
func Resolve(cli CLIOverrides) (Options, error) {
	k := koanf.New(".")

	def := Defaults()
	if err := k.Load(confmap.Provider(map[string]any{
		"tool_config_path": def.ToolConfigPath,
		"outdir_root":      def.OutdirRoot,
		"case_sensitive":   def.CaseSensitive,
		"bin_dir":          def.BinDir,
		"sector_size":      def.SectorSize,
	}, "."), nil); err != nil {
		return Options{}, err
	}

	envLayer, err := loadEnvLayer()
	if err != nil {
		return Options{}, err
	}
	if len(envLayer) > 0 {
		if err := k.Load(confmap.Provider(envLayer, "."), nil); err != nil {
			return Options{}, err
		}
	}

	cliLayer := map[string]any{}
	if cli.ToolConfigPathSet {
		cliLayer["tool_config_path"] = cli.ToolConfigPath
	}
	if cli.OutdirRootSet {
		cliLayer["outdir_root"] = cli.OutdirRoot
	}
	if cli.CaseSensitiveSet {
		cliLayer["case_sensitive"] = cli.CaseSensitive
	}
	if cli.BinDirSet {
		cliLayer["bin_dir"] = cli.BinDir
	}
	if cli.SectorSizeSet {
		cliLayer["sector_size"] = cli.SectorSize
	}
	if len(cliLayer) > 0 {
		if err := k.Load(confmap.Provider(cliLayer, "."), nil); err != nil {
			return Options{}, err
		}
	}

	return Options{
		ToolConfigPath: k.String("tool_config_path"),
		OutdirRoot:     k.String("outdir_root"),
		CaseSensitive:  k.Bool("case_sensitive"),
		BinDir:         k.String("bin_dir"),
		SectorSize:     k.Int("sector_size"),
	}, nil
}

// loadEnvLayer reads the TSKPIPE_* variables this package recognizes.
// Unset variables are omitted entirely rather than supplied as zero values,
// so they never shadow a default or a CLI flag's absence-detection.
func loadEnvLayer() (map[string]any, error) {
	layer := map[string]any{}

	if v := os.Getenv(envPrefix + "TOOL_CONFIG"); v != "" {
		layer["tool_config_path"] = v
	}
	if v := os.Getenv(envPrefix + "OUTDIR"); v != "" {
		layer["outdir_root"] = v
	}
	if v := os.Getenv(envPrefix + "BIN_DIR"); v != "" {
		layer["bin_dir"] = v
	}
	if v := os.Getenv(envPrefix + "CASE_SENSITIVE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, err
		}
		layer["case_sensitive"] = b
	}
	if v := os.Getenv(envPrefix + "SECTOR_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		layer["sector_size"] = n
	}

	return layer, nil
}
