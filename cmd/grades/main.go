package main

import (
	"os"

	"github.com/mind-engage/mindengage-grades/internal/config"
)

func main() {
	_ = config.LoadDotEnv()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
