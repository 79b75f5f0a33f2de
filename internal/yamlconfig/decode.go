package yamlconfig

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ---- raw YAML shapes, decoded then converted to the public model ----------

type yamlToolDef struct {
	Name      string            `yaml:"name"`
	Cmd       yaml.Node         `yaml:"cmd"`
	Args      []string          `yaml:"args,omitempty"`
	ArgsExtra map[string]string `yaml:"args_extra,omitempty"`
	AllowFail *bool             `yaml:"allow_fail,omitempty"`
	Enabled   *bool             `yaml:"enabled,omitempty"`
	Disabled  *bool             `yaml:"disabled,omitempty"`
}

type yamlToolConfig struct {
	Tools       []yamlToolDef     `yaml:"tools,omitempty"`
	Directories map[string]string `yaml:"directories,omitempty"`
}

// ParseToolConfig decodes the tool-config YAML (spec.md §6).
func ParseToolConfig(in []byte) (ToolConfig, error) {
	var y yamlToolConfig
	if err := yaml.Unmarshal(in, &y); err != nil {
		return ToolConfig{}, fmt.Errorf("%w: %v", ErrBadShape, err)
	}
	tools := make([]ToolDef, 0, len(y.Tools))
	for _, yt := range y.Tools {
		td, err := convertToolDef(yt)
		if err != nil {
			return ToolConfig{}, fmt.Errorf("tool %q: %w", yt.Name, err)
		}
		tools = append(tools, td)
	}
	return ToolConfig{Tools: tools, Directories: y.Directories}, nil
}

func convertToolDef(yt yamlToolDef) (ToolDef, error) {
	cmd, err := convertCmdTemplate(&yt.Cmd)
	if err != nil {
		return ToolDef{}, err
	}
	allowFail := false
	if yt.AllowFail != nil {
		allowFail = *yt.AllowFail
	}
	// disabled wins over enabled; default enabled (spec.md §3, §9 open question).
	enabled := true
	if yt.Enabled != nil {
		enabled = *yt.Enabled
	}
	if yt.Disabled != nil && *yt.Disabled {
		enabled = false
	}
	return ToolDef{
		Name:      yt.Name,
		Cmd:       cmd,
		Args:      yt.Args,
		ArgsExtra: yt.ArgsExtra,
		AllowFail: allowFail,
		Enabled:   enabled,
	}, nil
}

// convertCmdTemplate normalizes the `cmd` field's two forms: a bare string,
// or a windows/linux/macos mapping (spec.md §3, §9).
func convertCmdTemplate(node *yaml.Node) (CmdTemplate, error) {
	if node.Kind == 0 {
		return CmdTemplate{}, fmt.Errorf("%w: cmd is required", ErrBadShape)
	}
	switch node.Kind {
	case yaml.ScalarNode:
		return CmdTemplate{Single: node.Value}, nil
	case yaml.MappingNode:
		var m struct {
			Windows string `yaml:"windows"`
			Linux   string `yaml:"linux"`
			Macos   string `yaml:"macos"`
		}
		if err := node.Decode(&m); err != nil {
			return CmdTemplate{}, fmt.Errorf("%w: cmd mapping: %v", ErrBadShape, err)
		}
		return CmdTemplate{PerOS: true, Windows: m.Windows, Linux: m.Linux, Macos: m.Macos}, nil
	default:
		return CmdTemplate{}, fmt.Errorf("%w: cmd must be a string or windows/linux/macos mapping", ErrBadShape)
	}
}

// ---- file-list YAML ---------------------------------------------------------

type yamlFileList struct {
	Files []yaml.Node `yaml:"files,omitempty"`
}

type yamlFileSpec struct {
	Path      string             `yaml:"path"`
	Tool      *yamlToolInvocation `yaml:"tool,omitempty"`
	Tools     []yamlToolInvocation `yaml:"tools,omitempty"`
	Overwrite *bool              `yaml:"overwrite,omitempty"`
}

type yamlToolInvocation struct {
	Name      string            `yaml:"name,omitempty"`
	Cmd       string            `yaml:"cmd,omitempty"`
	Extra     map[string]string `yaml:"extra,omitempty"`
	Filter    string            `yaml:"filter,omitempty"`
	Output    yaml.Node         `yaml:"output,omitempty"`
	Requires  []string          `yaml:"requires,omitempty"`
	AllowFail *bool             `yaml:"allow_fail,omitempty"`
	RunOnce   bool              `yaml:"run_once,omitempty"`
}

// ParseFileList decodes a file-list YAML (spec.md §6).
func ParseFileList(in []byte) (FileList, error) {
	var y yamlFileList
	if err := yaml.Unmarshal(in, &y); err != nil {
		return FileList{}, fmt.Errorf("%w: %v", ErrBadShape, err)
	}
	specs := make([]FileSpec, 0, len(y.Files))
	for i, node := range y.Files {
		fs, err := convertFileSpecEntry(&node)
		if err != nil {
			return FileList{}, fmt.Errorf("files[%d]: %w", i, err)
		}
		specs = append(specs, fs)
	}
	return FileList{Files: specs}, nil
}

// convertFileSpecEntry normalizes the two FileSpecEntry forms (spec.md §9):
// a bare string (Shorthand) or a mapping (Full).
func convertFileSpecEntry(node *yaml.Node) (FileSpec, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return FileSpec{Pattern: node.Value, Overwrite: true}, nil
	case yaml.MappingNode:
		var yfs yamlFileSpec
		if err := node.Decode(&yfs); err != nil {
			return FileSpec{}, fmt.Errorf("%w: %v", ErrBadShape, err)
		}
		return convertFileSpec(yfs)
	default:
		return FileSpec{}, fmt.Errorf("%w: file entry must be a string or mapping", ErrBadShape)
	}
}

// convertFileSpec merges the singular `tool` and plural `tools` fields. Per
// spec.md §9's open question resolution: when both are present, `tool` is
// appended before `tools` in declaration order.
func convertFileSpec(yfs yamlFileSpec) (FileSpec, error) {
	overwrite := true
	if yfs.Overwrite != nil {
		overwrite = *yfs.Overwrite
	}

	var invocations []ToolInvocation
	if yfs.Tool != nil {
		inv, err := convertToolInvocation(*yfs.Tool)
		if err != nil {
			return FileSpec{}, err
		}
		invocations = append(invocations, inv)
	}
	for i, yti := range yfs.Tools {
		inv, err := convertToolInvocation(yti)
		if err != nil {
			return FileSpec{}, fmt.Errorf("tools[%d]: %w", i, err)
		}
		invocations = append(invocations, inv)
	}

	return FileSpec{Pattern: yfs.Path, Tools: invocations, Overwrite: overwrite}, nil
}

func convertToolInvocation(yti yamlToolInvocation) (ToolInvocation, error) {
	if yti.Name == "" && yti.Cmd == "" {
		return ToolInvocation{}, ErrMissingToolRef
	}
	output, err := convertToolOutput(&yti.Output)
	if err != nil {
		return ToolInvocation{}, err
	}
	allowFail := Inherit
	if yti.AllowFail != nil {
		if *yti.AllowFail {
			allowFail = ForceTrue
		} else {
			allowFail = ForceFalse
		}
	}
	return ToolInvocation{
		Name:      yti.Name,
		Cmd:       yti.Cmd,
		Extra:     yti.Extra,
		Filter:    yti.Filter,
		Output:    output,
		Requires:  yti.Requires,
		AllowFail: allowFail,
		RunOnce:   yti.RunOnce,
	}, nil
}

// convertToolOutput normalizes the three `output` forms (spec.md §4.7):
// absent (inherit), a bare string path, or a {path, append, stderr} mapping.
func convertToolOutput(node *yaml.Node) (ToolOutput, error) {
	if node.Kind == 0 {
		return ToolOutput{Mode: OutputInherit}, nil
	}
	switch node.Kind {
	case yaml.ScalarNode:
		return ToolOutput{Mode: OutputDetailed, Path: node.Value}, nil
	case yaml.MappingNode:
		var m struct {
			Path   string `yaml:"path"`
			Append bool   `yaml:"append"`
			Stderr bool   `yaml:"stderr"`
		}
		if err := node.Decode(&m); err != nil {
			return ToolOutput{}, fmt.Errorf("%w: output mapping: %v", ErrBadShape, err)
		}
		return ToolOutput{Mode: OutputDetailed, Path: m.Path, Append: m.Append, Stderr: m.Stderr}, nil
	default:
		return ToolOutput{}, fmt.Errorf("%w: output must be a string or mapping", ErrBadShape)
	}
}
