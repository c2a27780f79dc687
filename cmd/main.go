// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Command max-dump inspects 3ds Max .max scene files: by default it
// lists every camera's node name, and with flags it can dump a raw
// stream, parse a stream (as decoded JSON for ClassDirectory3,
// DllDirectory and Scene, as a chunk tree for any other stream), or
// decode the document-summary property stream.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	maxfile "github.com/NeKidaem/max-dump"
	"github.com/NeKidaem/max-dump/log"
)

var (
	propsFlag       bool
	parseStreamFlag string
	dumpStreamFlag  string
	verboseFlag     bool
)

var rootCmd = &cobra.Command{
	Use:   "max-dump [flags] FILE",
	Short: "Inspect 3ds Max .max scene files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().BoolVar(&propsFlag, "props", false, "dump the document-summary property stream")
	rootCmd.Flags().StringVar(&parseStreamFlag, "parse-stream", "", "parse the named stream and print it (decoded JSON for ClassDirectory3, DllDirectory and Scene; a chunk tree otherwise)")
	rootCmd.Flags().StringVar(&dumpStreamFlag, "dump-stream", "", "print the named stream's raw bytes as hex")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	set := 0
	for _, f := range []bool{propsFlag, parseStreamFlag != "", dumpStreamFlag != ""} {
		if f {
			set++
		}
	}
	if set > 1 {
		return fmt.Errorf("--props, --parse-stream, and --dump-stream are mutually exclusive")
	}

	logger := log.DefaultHelper()
	if verboseFlag {
		logger = log.NewHelper(log.NewFilter(log.NewStdLogger(os.Stderr), log.FilterLevel(log.LevelDebug)))
	}

	path := args[0]
	f, err := maxfile.New(path, &maxfile.Options{Logger: logger})
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	switch {
	case dumpStreamFlag != "":
		data, err := f.DumpStream(dumpStreamFlag)
		if err != nil {
			return err
		}
		fmt.Printf("%x\n", data)
		return nil

	case parseStreamFlag == maxfile.StreamClassDirectory3:
		return printJSON(f.Classes)

	case parseStreamFlag == maxfile.StreamDllDirectory:
		return printJSON(f.DLLs)

	case parseStreamFlag == maxfile.StreamScene:
		return printJSON(f.Scene)

	case parseStreamFlag != "":
		chunks, err := f.ParseStream(parseStreamFlag)
		if err != nil {
			return err
		}
		for _, c := range chunks {
			fmt.Print(c.String())
		}
		return nil

	case propsFlag:
		table, err := f.Properties()
		if err != nil {
			return err
		}
		return printJSON(table)

	default:
		names, err := f.ListCameras()
		if err != nil {
			return err
		}
		return printJSON(names)
	}
}

func printJSON(v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	fmt.Println(buf.String())
	return nil
}
