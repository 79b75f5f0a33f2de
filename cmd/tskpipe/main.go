package main

import "tskpipe/pkg/lib"

func main() {
	err := rootCmd.Execute()
	lib.ExitCode(err, exitCodeFor(err))
}
