// Zipflow streams ZIP archives built from lazily opened sources.
//
// Usage:
//
//	zipflow serve [--addr :8080]          serve the demo archive at GET /
//	zipflow pack [-o out.zip] FILE...     write an archive of files
//	zipflow pack --mock [-o out.zip]      write the demo archive
//	zipflow cat [ARCHIVE]                 print entry names and lines
//
// Settings are read from the file given with --config, then from ZIPFLOW_*
// environment variables, for example:
//
//	ZIPFLOW_ARCHIVE_BUFFER_SIZE=65536
//	ZIPFLOW_ARCHIVE_METHOD=store
//	ZIPFLOW_SERVE_ADDR=:9000
//	ZIPFLOW_MOCK_TYPE3_COUNT=1000
//
// Flags given on the command line take precedence.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "zipflow: %v\n", err)
		os.Exit(1)
	}
}
