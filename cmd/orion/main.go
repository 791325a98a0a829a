package main

import (
	"os"
)

// main builds the command tree and hands control to cobra. All engine state
// lives in one Protocol per invocation.
func main() {
	a := &app{}
	err := newRootCmd(a).Execute()
	a.close()
	if err != nil {
		os.Exit(1)
	}
}
