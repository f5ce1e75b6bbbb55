// File path: cmd/busshift/main.go
package main

import (
	"os"

	"github.com/ametcalf/busshift/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
