package main

import (
	"log"

	"github.com/BobbyForshell/time-span-estimator/internal/server"
)

func main() {
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
