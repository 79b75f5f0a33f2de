package expand

import (
	"strings"
	"testing"
)

func TestExpand_Variables(t *testing.T) {
	env := NewEnvironment().With("USER", "bob").With("DIR_CHROME", `C:\out\chrome`)
	funcs := NewFuncTable()

	got, err := Expand(`$DIR_CHROME\$USER.db`, env, funcs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `C:\out\chrome\bob.db`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExpand_UnboundVariableLeftLiteral(t *testing.T) {
	env := NewEnvironment()
	got, err := Expand(`$UNKNOWN_VAR/out`, env, NewFuncTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `$UNKNOWN_VAR/out` {
		t.Fatalf("got %q, want unbound name left literal", got)
	}
}

func TestExpand_PathFunction(t *testing.T) {
	env := NewEnvironment()
	got, err := Expand(`${PATH:/a/b/c}`, env, NewFuncTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "a") || !strings.Contains(got, "b") || !strings.Contains(got, "c") {
		t.Fatalf("got %q, expected components preserved", got)
	}
}

func TestExpand_ReplaceFunction(t *testing.T) {
	env := NewEnvironment()
	got, err := Expand(`${REPLACE:abcaaea,a,_test_}`, env, NewFuncTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := strings.ReplaceAll("abcaaea", "a", "_test_")
	if got != want {
		t.Fatalf("got %q, want %q (all occurrences replaced)", got, want)
	}
}

// TestExpand_NestedFunctions exercises a nested ${REPLACE:${PATH:...${REPLACE:...}}}
// template of the shape described in spec.md §4.2's worked example, pinning
// innermost-first resolution. The expected value is derived from the same
// primitive (strings.ReplaceAll) applied in the same order the expander
// must apply it, rather than a hand-copied literal, since REPLACE is
// defined to replace ALL occurrences and a manual transcription is easy to
// get wrong for a string with this many repeated characters.
func TestExpand_NestedFunctions(t *testing.T) {
	env := NewEnvironment().With("FILENAME", "x.bin")
	funcs := NewFuncTable()

	template := `${REPLACE:${PATH:/${REPLACE:abcaaea,a,_test_}/def/ghi},e,[$FILENAME]}`
	got, err := Expand(template, env, funcs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inner := strings.ReplaceAll("abcaaea", "a", "_test_")
	pathed := "/" + inner + "/def/ghi"
	want := strings.ReplaceAll(pathed, "e", "[x.bin]")

	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// TestExpand_NoResidualVariables pins Testable Property 7 from spec.md §8:
// for any expanded output, no $NAME token bound in the environment remains
// unexpanded.
func TestExpand_NoResidualVariables(t *testing.T) {
	env := NewEnvironment().With("OUTDIR", "/out").With("TOOL", "chrome")
	template := `$OUTDIR/$TOOL/${REPLACE:$TOOL,o,0}.log`
	got, err := Expand(template, env, NewFuncTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bound := range []string{"$OUTDIR", "$TOOL"} {
		if strings.Contains(got, bound) {
			t.Fatalf("expanded output %q still contains bound token %q", got, bound)
		}
	}
}

func TestExpand_UnknownFunction(t *testing.T) {
	_, err := Expand(`${NOPE:a}`, NewEnvironment(), NewFuncTable())
	if err == nil {
		t.Fatalf("expected error for unknown function")
	}
}

func TestExpand_UnmatchedBrace(t *testing.T) {
	_, err := Expand(`${PATH:/a`, NewEnvironment(), NewFuncTable())
	if err == nil {
		t.Fatalf("expected error for unmatched brace")
	}
}

func TestExpand_MaxDepthExceeded(t *testing.T) {
	template := "x"
	for i := 0; i < MaxFunctionDepth+2; i++ {
		template = "${PATH:" + template + "}"
	}
	_, err := Expand(template, NewEnvironment(), NewFuncTable())
	if err == nil {
		t.Fatalf("expected error for excessive nesting depth")
	}
}
