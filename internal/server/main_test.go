package server

import (
	"os"
	"testing"

	"github.com/contentpipe/contentpipe/internal/tester"
)

func TestMain(m *testing.M) {
	tester.Setup()
	code := m.Run()

	os.Exit(code)
}
