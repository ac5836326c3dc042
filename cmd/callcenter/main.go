// Command callcenter runs the HTTP-fronted call dispatch engine.
package main

import (
	"fmt"
	"os"

	"github.com/KrolPaul/call-center/cmd/callcenter/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(commands.ExitCodeOf(err))
	}
}
