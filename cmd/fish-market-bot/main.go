package main

import (
	"log"

	"github.com/Michael-Zapivahin/fish-market-bot/internal/app"
)

func main() {
	err := app.Run(app.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "configs/config.yaml",
	})
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
