package main

import (
	"os"

	"github.com/hongminglow/all-in-auth/internal/command"
)

func main() {
	if err := command.RootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
