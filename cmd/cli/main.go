// gachalog - Banner Rerun History Extractor
//
// gachalog reads wish stats reports, reconstructs when each character
// banner ran, and computes how long each character waited for a rerun.
package main

import (
	"os"

	"github.com/ccollicutt/gachalog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
