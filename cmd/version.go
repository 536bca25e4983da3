package main

import "fmt"

// Version is set at build time via -ldflags.
var Version = "dev"

func printVersion() {
	fmt.Printf("scriptseam %s\n", Version)
}
