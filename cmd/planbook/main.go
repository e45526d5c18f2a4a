package main

import (
	"os"

	"github.com/jrepp/planbook/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
