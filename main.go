package main

import (
	"os"

	"github.com/abhisek/quizpace/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
