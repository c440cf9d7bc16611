package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"nickandperla.net/tapebf"
)

const defaultConfigPath = "./config.toml"

var toolConfigPath *string = flag.String("config", defaultConfigPath, "The config file for tapebf to use. Defaults to './config.toml' and may be absent")

var expect *string = flag.String("expect", "", "Expected program output. When set, the final output is compared against it")

var noTrace *bool = flag.Bool("notrace", false, "Print only the prompt, the program and the final output")

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	toolConfig, err := tapebf.LoadToolConfig(*toolConfigPath, *toolConfigPath == defaultConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load tapebf config: %v\n", err)
		return tapebf.ExitToolFailure
	}
	if *noTrace {
		toolConfig.Trace.Enabled = false
	}

	logger, closer, err := tapebf.NewLogger(toolConfig.Log, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to set up logging: %v\n", err)
		return tapebf.ExitToolFailure
	}
	defer closer.Close()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	session := tapebf.NewSession(toolConfig, bufio.NewReader(os.Stdin), &flushingWriter{out}, logger)
	if *expect != "" {
		session.Expected = expect
	}

	if toolConfig.Persistence.Enabled {
		persist, err := tapebf.NewPersistence(toolConfig.Persistence)
		if err != nil {
			logger.Error("create or initialize Persistence", "error", err)
			return tapebf.ExitToolFailure
		}
		defer func() {
			if err := persist.Shutdown(); err != nil {
				logger.Error("shut down Persistence", "error", err)
			}
		}()
		session.Journal = persist
	}

	return session.Run().ExitCode
}

// flushingWriter flushes after every write that ends without a newline, so
// the prompt shows before the session blocks on stdin.
type flushingWriter struct {
	w *bufio.Writer
}

func (f *flushingWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err == nil && n > 0 && p[n-1] != '\n' {
		err = f.w.Flush()
	}
	return n, err
}
