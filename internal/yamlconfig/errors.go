package yamlconfig

import "errors"

var (
	// ErrBadShape is returned when a YAML node does not match any of the
	// shapes a polymorphic field accepts (e.g. cmd must be a string or a
	// windows/linux/macos mapping).
	ErrBadShape = errors.New("unexpected YAML shape")

	// ErrUnknownExtraArg names an extra-arg key the referenced ToolDef's
	// args_extra does not declare. The decoders here do not return it; that
	// check happens in toolregistry.BuildCommand, which returns
	// toolregistry.ErrUnknownExtraArg.
	ErrUnknownExtraArg = errors.New("unknown extra-arg key")

	// ErrMissingToolRef is returned when a ToolInvocation supplies neither
	// name nor cmd.
	ErrMissingToolRef = errors.New("tool invocation must set name or cmd")

	// ErrEmptyDocument names a YAML file that decodes to nothing. The
	// decoders here do not return it: an empty document yields an empty
	// ToolConfig or FileList and a nil error.
	ErrEmptyDocument = errors.New("empty YAML document")
)
