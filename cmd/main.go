// Package main is the entry point for scriptseam, an instrumented runner for
// third-party Lua scripts.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads .env from standard locations.
func loadEnvFiles() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		_ = godotenv.Load()
		return
	}

	configEnv := filepath.Join(homeDir, ".config", "scriptseam", ".env")
	if _, err := os.Stat(configEnv); err == nil {
		_ = godotenv.Load(configEnv)
	}

	// Local .env can override
	_ = godotenv.Load()
}

func main() {
	loadEnvFiles()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "run":
			os.Exit(runCommand(os.Args[2:]))
		case "version", "-v", "--version":
			printVersion()
			return
		case "help", "-h", "--help":
			printHelp()
			return
		}
	}

	printHelp()
	os.Exit(2)
}

func printHelp() {
	fmt.Print(`scriptseam - run third-party scripts under call interception

Usage:
  scriptseam run --entry-point <path[:callable]> [flags]
  scriptseam version
  scriptseam help

Run flags:
  --entry-point        Script to run: './code.lua' or './code:main'
  --entry-point-args   JSON value mapped onto the callable's arguments
  --interceptor-args   JSON object passed through to interceptors
  --framework          Framework adapter to bind (default: sqlite)
  --plugins            Comma-separated interceptors (default: extract)
  --config             YAML config file
  --result-file        Write a JSON-serializable result here
  --no-intercept       Bind the framework without interception
  --dry-run            Terminate every call before the real function runs
  --quiet              Suppress the runner's own output; user code output is untouched
  --monitor-addr       Serve a live WebSocket stream of calls
  --telemetry-path     Append one JSONL record per call
`)
}
