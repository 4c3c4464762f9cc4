package main

import (
	"os"
)

func main() {
	if err := NewCmdRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
