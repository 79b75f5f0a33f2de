// Package toolregistry resolves a tool reference to a platform-specific
// command template with extra-argument metadata (component C6).
package toolregistry

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"tskpipe/internal/yamlconfig"
)

// Registry holds the tool definitions and directory bindings loaded from
// the tool-config YAML (spec.md §6).
type Registry struct {
	tools       map[string]yamlconfig.ToolDef
	directories map[string]string
}

// New builds a Registry from a decoded ToolConfig.
func New(cfg yamlconfig.ToolConfig) *Registry {
	tools := make(map[string]yamlconfig.ToolDef, len(cfg.Tools))
	for _, t := range cfg.Tools {
		tools[t.Name] = t
	}
	return &Registry{tools: tools, directories: cfg.Directories}
}

// Resolve looks up a tool by name. A missing name is a Configuration error
// (spec.md §7); a disabled tool is returned with a nil error so the
// Dispatcher can treat it as a no-op success (spec.md §4.6, §4.7 step 1).
func (r *Registry) Resolve(name string) (yamlconfig.ToolDef, error) {
	def, ok := r.tools[name]
	if !ok {
		return yamlconfig.ToolDef{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return def, nil
}

// Directories returns the tool-name → host-path bindings exposed as
// DIR_<NAME> variables (spec.md §6).
func (r *Registry) Directories() map[string]string {
	return r.directories
}

// BuildCommand concatenates a ToolDef's OS-specific cmd template, its
// constant args, and any args_extra fragments whose key was supplied in
// providedExtra — in that order (spec.md §4.6). The returned string is
// still a raw template: $VAR/${FN:...} substitution happens later, in one
// pass over the whole string, once the Dispatcher has built the full
// Environment (including the per-invocation <ARG> bindings for
// providedExtra — see spec.md §4.2).
func (r *Registry) BuildCommand(def yamlconfig.ToolDef, providedExtra map[string]string) (string, error) {
	template, ok := def.Cmd.ForOS(runtime.GOOS)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoTemplateForOS, def.Name)
	}

	for key := range providedExtra {
		if _, declared := def.ArgsExtra[key]; !declared {
			return "", fmt.Errorf("%w: %s (tool %s)", ErrUnknownExtraArg, key, def.Name)
		}
	}

	parts := []string{template}
	if len(def.Args) > 0 {
		parts = append(parts, strings.Join(def.Args, " "))
	}
	for _, key := range sortedPresentKeys(def.ArgsExtra, providedExtra) {
		parts = append(parts, def.ArgsExtra[key])
	}
	return strings.Join(parts, " "), nil
}

// sortedPresentKeys returns the args_extra keys that providedExtra actually
// supplies, in a stable (sorted) order — the map-based YAML representation
// carries no declaration order to preserve.
func sortedPresentKeys(declared, provided map[string]string) []string {
	var keys []string
	for k := range declared {
		if _, ok := provided[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
