package main

import (
	"log"

	"github.com/nmonzon/carmind/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
