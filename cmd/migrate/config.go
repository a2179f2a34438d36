package main

import (
	"github.com/kelseyhightower/envconfig"
)

func loadConfig(target any) error {
	return envconfig.Process("", target)
}
