package main

import (
	"os"

	"media-viewer-core/internal/cli"
	"media-viewer-core/internal/logging"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.Error("%v", err)
		os.Exit(1)
	}
}
