package main

// Flag variables bound in init() (spec.md §6), after the teacher's
// package-level rootCmd / flag-variable convention in cmd_root.go.
var (
	flagBinDir     string
	flagVSType     string
	flagImgType    string
	flagSectorSize int
	flagOffset     int
	flagPartitions []int
	flagInteractive bool
	flagListOnly   bool
	flagSaveAll    bool
	flagAdhoc      []string
	flagFileLists  []string
	flagOutdir     string
	flagToolConfig string
	flagCaseSens   bool
	flagSilent     bool
	flagVerbose    int
	flagDryRun     bool
)

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flagBinDir, "bindir", "T", "", "backend binary directory")
	f.StringVarP(&flagVSType, "vstype", "t", "", "volume-system type {bsd,mac,list,gpt,dos,sun}")
	f.StringVarP(&flagImgType, "imgtype", "i", "", "image format {afm,list,vhd,vmdk,aff,afflib,ewf,afd,raw}")
	f.IntVarP(&flagSectorSize, "sectorsize", "b", 0, "sector size in bytes (multiple of 512)")
	f.IntVarP(&flagOffset, "offset", "o", 0, "offset in sectors")
	f.IntSliceVarP(&flagPartitions, "partition", "p", nil, "partition slot numbers (repeatable)")
	f.BoolVarP(&flagInteractive, "interactive", "P", false, "interactive partition selection")
	f.BoolVarP(&flagListOnly, "list-only", "l", false, "list resolved entries, no extraction")
	f.BoolVarP(&flagSaveAll, "save-all", "a", false, "extract every entry, skip tool dispatch")
	f.StringArrayVarP(&flagAdhoc, "pattern", "f", nil, "ad-hoc pattern, no tools run")
	f.StringArrayVarP(&flagFileLists, "filelist", "F", nil, "YAML file-list path")
	f.StringVarP(&flagOutdir, "outdir", "d", "", "output root (default extracted)")
	f.StringVarP(&flagToolConfig, "config", "c", "", "tool-config YAML (default config.yaml)")
	f.BoolVarP(&flagCaseSens, "case-sensitive", "S", false, "case-sensitive matching")
	f.BoolVarP(&flagSilent, "silent", "s", false, "silent")
	f.CountVarP(&flagVerbose, "verbose", "v", "verbose (repeatable, caps at debug)")
	f.BoolVar(&flagDryRun, "dry-run", false, "print commands instead of executing them")
}
