package main

import (
	"context"
	"fmt"
	"os"

	"lectio/bootstrap"
)

func main() {
	if err := bootstrap.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "lectio: %v\n", err)
		os.Exit(1)
	}
}
