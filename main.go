package main

import (
	"log"

	"github.com/hunk-scm/hunk-go/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		log.Fatalf("hunk-go: %v", err)
	}
}
