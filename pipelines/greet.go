package main

import (
	"fmt"
	"os"
	"runtime"
)

func main() {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	fmt.Printf("Hello from %s (%s/%s)\n", host, runtime.GOOS, runtime.GOARCH)
}
