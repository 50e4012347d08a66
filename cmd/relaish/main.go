package main

import (
	"github.com/robotalks/relais.go/pkg/cli/sh"
	"github.com/robotalks/relais.go/pkg/relais"
)

//go-build: CGO_ENABLED=0

func init() {
	relais.SetupFlags()
}

func main() {
	sh.Main()
}
