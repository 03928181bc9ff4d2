package main

import (
	"os"
	"wafblock/internal/cmdutil"
	"wafblock/internal/types"
	"wafblock/pkg/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		cmdutil.PrintE(err.Error())
		if types.KindOf(err) == types.ErrValidation {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
