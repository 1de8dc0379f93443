package main

import (
	"os"

	"github.com/soakops/soakmon/cmd"
)

func main() {
	os.Exit(cmd.Run())
}
