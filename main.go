package main

import (
	"os"

	"github.com/lindenbaum/check-collectd/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
