// Package main is the entry point for the streameast application.
package main

import (
	"github.com/samber/lo"

	"github.com/albinchristo04/streameast/cmd"
	"github.com/albinchristo04/streameast/config"
	"github.com/albinchristo04/streameast/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
