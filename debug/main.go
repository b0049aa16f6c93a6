package main

import (
	"os"

	"github.com/contentpipe/contentpipe/internal/server"
)

func main() {
	httpPort := os.Getenv("PORT")
	if httpPort == "" {
		httpPort = "4020"
	}

	server.NewServer(httpPort).Start()
}
