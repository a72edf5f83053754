// main is the entry point for the codepulse CLI.
package main

import (
	"github.com/huangsam/codepulse/cmd"
	"github.com/huangsam/codepulse/internal/contract"
	"github.com/huangsam/codepulse/internal/iocache"
)

func main() {
	defer iocache.CloseStores()

	cmd.SetStoreManager(iocache.Manager)
	if err := cmd.Execute(); err != nil {
		iocache.CloseStores()
		contract.LogFatal("Cannot run codepulse", err)
	}
}
