package main

import (
	"github.com/contentpipe/contentpipe/cmd"
)

func main() {
	cmd.Execute()
}
