// Package main is the entry point for ytfree.
package main

import (
	"github.com/samber/lo"
	"github.com/ytfree-cli/ytfree/cmd"
	"github.com/ytfree-cli/ytfree/config"
	"github.com/ytfree-cli/ytfree/internal/cache"
	"github.com/ytfree-cli/ytfree/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go cache.CollectGarbage()

	cmd.Execute()
}
