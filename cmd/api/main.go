package main

import (
	"os"
)

// @title Pet API
// @version 1.0.1
// @description Persons, their partner and their pets.
// @BasePath /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
