// Command memstress runs a concurrent allocation workload against a memcore
// allocator and checks that memory and counters come back intact.
//
//	memstress run --backend tiered --tracking --goroutines 16 --iterations 5000
//	memstress run --config memcore.yaml --metrics-addr :9090
//	memstress info
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
