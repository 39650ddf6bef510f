package main

import (
	"os"

	"github.com/soundprediction/grafity/cmd/grafity"
)

func main() {
	if err := grafity.Execute(); err != nil {
		os.Exit(1)
	}
}
