// Command neonchess opens the Neon City Chess renderer or exports a game snapshot as JSON.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
)

// GLFW must run on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "neonchess: %v\n", err)
		os.Exit(1)
	}
}
