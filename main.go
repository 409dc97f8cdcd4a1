package main

import (
	"os"

	"github.com/Justaguy666/PetCareX-sub000/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
