// Package main is the entry point for the streamscout application.
package main

import (
	"github.com/samber/lo"
	"github.com/streamscout/streamscout/cmd"
	"github.com/streamscout/streamscout/config"
	"github.com/streamscout/streamscout/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
