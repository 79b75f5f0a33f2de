package toolregistry

import "errors"

var (
	// ErrUnknownTool is returned when a ToolInvocation references a name
	// not present in the registry.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrUnknownExtraArg is returned when a supplied extra-arg key is not
	// declared in the tool's args_extra (spec.md §4.6).
	ErrUnknownExtraArg = errors.New("unknown extra-arg key")

	// ErrNoTemplateForOS is returned when a PerOS CmdTemplate has no entry
	// for the current host (after the macos→linux fallback).
	ErrNoTemplateForOS = errors.New("no command template for host OS")
)
