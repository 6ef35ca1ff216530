package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"taskflow-server-go/internal/bootstrap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	flag.Parse()

	if err := bootstrap.Run(context.Background(), bootstrap.Options{ConfigPath: *configPath}); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "taskflow-server failed: %v\n", err)
		os.Exit(1)
	}
}
