// Package yamlconfig decodes the two user-facing YAML shapes named in
// spec.md §6 — the tool-config file and the file-list file — into the
// tagged-variant Go types spec.md §9 calls for (CmdTemplate, ToolOutput,
// FileSpecEntry), following the polymorphic yaml.Node decoding convention
// the teacher's dslyaml package uses for its own tagged fields.
package yamlconfig

// CmdTemplate is either a single command template used on every host OS,
// or a per-OS mapping (spec.md §3 ToolDef.cmd, §9 tagged variant).
type CmdTemplate struct {
	Single  string
	Windows string
	Linux   string
	Macos   string
	// PerOS is true when the YAML supplied a windows/linux/macos mapping
	// rather than a bare string.
	PerOS bool
}

// ForOS resolves the template for the given runtime.GOOS value, falling
// back from macos to linux when no macos-specific template was given
// (spec.md §4.6).
func (c CmdTemplate) ForOS(goos string) (string, bool) {
	if !c.PerOS {
		return c.Single, c.Single != ""
	}
	switch goos {
	case "windows":
		return c.Windows, c.Windows != ""
	case "darwin":
		if c.Macos != "" {
			return c.Macos, true
		}
		return c.Linux, c.Linux != ""
	default:
		return c.Linux, c.Linux != ""
	}
}

// OutputMode is the tagged variant for a ToolInvocation's `output` field
// (spec.md §4.7, §9).
type OutputMode int

const (
	OutputInherit OutputMode = iota
	OutputDetailed
)

// ToolOutput describes where a tool invocation's streams are routed.
type ToolOutput struct {
	Mode   OutputMode
	Path   string
	Append bool
	Stderr bool
}

// TriState models an optional bool with an explicit "unset/inherit" state,
// used for ToolInvocation.AllowFail (spec.md §3: "tri-state: inherit |
// force-true | force-false").
type TriState int

const (
	Inherit TriState = iota
	ForceTrue
	ForceFalse
)

// Resolve returns the effective bool for this tri-state given a fallback
// default, per spec.md §4.7 step 8.
func (t TriState) Resolve(fallback bool) bool {
	switch t {
	case ForceTrue:
		return true
	case ForceFalse:
		return false
	default:
		return fallback
	}
}

// ToolDef is a registry entry loaded from the tool-config YAML (spec.md §3).
type ToolDef struct {
	Name       string
	Cmd        CmdTemplate
	Args       []string
	ArgsExtra  map[string]string // extra-arg name -> argument fragment template
	AllowFail  bool
	Enabled    bool // derived from enabled/disabled fields; disabled wins
}

// ToolInvocation is one entry in a FileSpec's tools list (spec.md §3).
type ToolInvocation struct {
	Name      string // registry reference; when set, Cmd is ignored
	Cmd       string // inline template; used only when Name is empty
	Extra     map[string]string
	Filter    string
	Output    ToolOutput
	Requires  []string
	AllowFail TriState
	RunOnce   bool
}

// FileSpec is one declaration in the file-list YAML (spec.md §3). A bare
// YAML string is shorthand for {pattern: it, tools: [], overwrite: true}.
type FileSpec struct {
	Pattern   string
	Tools     []ToolInvocation
	Overwrite bool
}

// ToolConfig is the decoded top-level shape of the tool-config YAML
// (spec.md §6: keys `tools` and `directories`).
type ToolConfig struct {
	Tools       []ToolDef
	Directories map[string]string
}

// FileList is the decoded top-level shape of a file-list YAML (spec.md §6:
// key `files`).
type FileList struct {
	Files []FileSpec
}
