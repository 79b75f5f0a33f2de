package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tskpipe/internal/appconfig"
	"tskpipe/internal/driver"
	"tskpipe/internal/expand"
	"tskpipe/internal/imagebackend"
	"tskpipe/internal/toolregistry"
	"tskpipe/internal/yamlconfig"
)

var rootCmd = &cobra.Command{
	Use:           "tskpipe [image...]",
	Short:         "Forensic disk-image extraction and tool-dispatch engine",
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runRoot,
}

func runRoot(cmd *cobra.Command, args []string) error {
	if flagVSType == "list" {
		printSupportedValues("volume-system types", imagebackend.SupportedVSTypes)
		return nil
	}
	if flagImgType == "list" {
		printSupportedValues("image formats", imagebackend.SupportedImgTypes)
		return nil
	}

	if len(flagPartitions) > 0 && flagInteractive {
		return fmt.Errorf("%w: -p and -P are mutually exclusive", errUsage)
	}
	if flagListOnly && flagSaveAll {
		return fmt.Errorf("%w: -l and -a are mutually exclusive", errUsage)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: at least one image path is required", errUsage)
	}

	log := newLogger(flagSilent, flagVerbose)

	opts, err := appconfig.Resolve(appconfig.CLIOverrides{
		ToolConfigPath:    flagToolConfig,
		ToolConfigPathSet: flagToolConfig != "",
		OutdirRoot:        flagOutdir,
		OutdirRootSet:     flagOutdir != "",
		CaseSensitive:     flagCaseSens,
		CaseSensitiveSet:  flagCaseSens,
		BinDir:            flagBinDir,
		BinDirSet:         flagBinDir != "",
		SectorSize:        flagSectorSize,
		SectorSizeSet:     flagSectorSize != 0,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	toolCfg, err := loadToolConfig(opts.ToolConfigPath)
	if err != nil {
		return err
	}
	registry := toolregistry.New(toolCfg)

	fileSpecs, err := buildFileSpecs(flagAdhoc, flagFileLists)
	if err != nil {
		return err
	}
	if len(fileSpecs) == 0 {
		return fmt.Errorf("%w: no patterns supplied (use -f or -F)", errUsage)
	}

	backend := imagebackend.NewAdapter(imagebackend.Options{
		BinDir:     opts.BinDir,
		VSType:     flagVSType,
		ImgType:    flagImgType,
		SectorSize: opts.SectorSize,
		Offset:     int64(flagOffset),
	}, log)

	selection := driver.SelectAllEligible
	switch {
	case flagInteractive:
		selection = driver.SelectInteractive
	case len(flagPartitions) > 0:
		selection = driver.SelectExplicit
	}

	d := driver.New(driver.Options{
		Images:          args,
		Backend:         backend,
		Selection:       selection,
		ExplicitSlots:   flagPartitions,
		Interactive:     pickPartitionsInteractively,
		FileSpecs:       fileSpecs,
		OutdirRoot:      opts.OutdirRoot,
		Registry:        registry,
		Funcs:           expand.NewFuncTable(),
		CaseSensitive:   opts.CaseSensitive,
		ListOnly:        flagListOnly,
		SaveAll:         flagSaveAll,
		DryRun:          flagDryRun,
		Silent:          flagSilent,
		OnListEntries:   printResolvedEntries,
		Log:             log,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	return d.Run(ctx)
}

// loadToolConfig reads the tool-config YAML. A missing file is tolerated —
// -a save-all never needs one, and a run using only inline `cmd` templates
// (no registry `name` references) doesn't either; an actual reference to an
// undefined tool still surfaces as toolregistry.ErrUnknownTool later.
func loadToolConfig(path string) (yamlconfig.ToolConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return yamlconfig.ToolConfig{}, nil
		}
		return yamlconfig.ToolConfig{}, fmt.Errorf("%w: reading tool config %s: %v", errUsage, path, err)
	}
	cfg, err := yamlconfig.ParseToolConfig(raw)
	if err != nil {
		return yamlconfig.ToolConfig{}, fmt.Errorf("%w: %v", errUsage, err)
	}
	return cfg, nil
}

// buildFileSpecs merges -f ad-hoc patterns (no tools attached) with every
// FileSpec loaded from -F YAML file lists, in the order given on the
// command line.
func buildFileSpecs(adhoc []string, fileLists []string) ([]yamlconfig.FileSpec, error) {
	var specs []yamlconfig.FileSpec
	for _, pattern := range adhoc {
		specs = append(specs, yamlconfig.FileSpec{Pattern: pattern, Overwrite: true})
	}
	for _, path := range fileLists {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: reading file list %s: %v", errUsage, path, err)
		}
		fl, err := yamlconfig.ParseFileList(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", errUsage, path, err)
		}
		specs = append(specs, fl.Files...)
	}
	return specs, nil
}
