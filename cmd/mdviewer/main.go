package main

import (
	"log"

	"github.com/mithrel/mdviewer/internal/cli"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("mdviewer: ")
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
