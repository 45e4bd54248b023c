// Command ocisql runs queries and reads the catalog of an Oracle database.
package main

import (
	"fmt"
	"os"
)

// Version is set at build time
var Version = "dev"

func main() {
	a := &app{}
	err := newRootCommand(a).Execute()
	a.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
