// Command tradocflow is the CLI front end for the document workstation.
package main

import (
	"os"

	"github.com/tradocflow/tradocflow/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
