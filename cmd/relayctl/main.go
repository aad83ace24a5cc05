package main

import (
	"context"
	stdlog "log"

	"github.com/skyline-media/realtime-relay/cmd/relayctl/cmd"
	"github.com/skyline-media/realtime-relay/tracing"
)

func main() {
	tp, err := tracing.InitTracerProvider("realtime-relay-relayctl")
	if err != nil {
		stdlog.Fatalf("Failed to initialize TracerProvider: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			stdlog.Printf("Error shutting down TracerProvider: %v", err)
		}
	}()

	cmd.Execute()
}
