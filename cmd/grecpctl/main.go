package main

import (
	"fmt"
	"os"

	"github.com/danmuck/grecp/internal/logging"
)

func main() {
	logging.ConfigureRuntime()
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "grecpctl: %v\n", err)
		os.Exit(1)
	}
}
