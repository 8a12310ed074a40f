package main

import (
	"log"

	"metal-risk-engine/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}
