package main

import (
	"log"

	"github.com/avdcouto/photoapp/internal/cli"
)

func main() {
	log.SetFlags(0)
	if err := cli.NewRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
