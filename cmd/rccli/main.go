package main

import (
	"github.com/robotalks/rcout/pkg/cli/sh"
	"github.com/robotalks/rcout/pkg/config"

	_ "github.com/robotalks/rcout/pkg/cli/cmds/rc"
)

//go-build: CGO_ENABLED=0

func init() {
	config.SetupClientFlags()
}

func main() {
	sh.Main()
}
