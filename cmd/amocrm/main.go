package main

import (
	"os"

	"github.com/hashicorp-forge/amocrm/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
