package main

import (
	"os"

	"github.com/Candra0x6/stara-match/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
