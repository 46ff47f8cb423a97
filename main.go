package main

import (
	"os"

	"github.com/zaidfarekh/flowmatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
