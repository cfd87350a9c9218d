package main

import (
	"fmt"
	"os"

	"github.com/temirov/tulaunch/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main runs the launcher. Errors the launcher already surfaced, a propagated
// child status or a logged spawn failure, are not printed a second time.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	if !cli.ErrorAlreadyReported(executionError) {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	}
	os.Exit(cli.ExitStatus(executionError))
}
