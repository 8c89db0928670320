// Package main is the entry point for the incentive CLI.
package main

import (
	"github.com/huangsam/incentive/cmd"
	"github.com/huangsam/incentive/internal/contract"
	"github.com/huangsam/incentive/internal/iocache"
)

func main() {
	err := cmd.Execute()

	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("failed to stop profiling", stopErr)
	}
	cmd.Close()
	iocache.CloseCaching()

	if err != nil {
		contract.LogFatal("incentive failed", err)
	}
}
