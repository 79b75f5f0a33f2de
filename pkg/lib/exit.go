package lib

import (
	"fmt"
	"os"
)

// ExitCode prints the error (unless it is nil) and exits the program with
// the given code. It always exits, including when code is 0.
func ExitCode(err error, code int) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(code)
}
