// Package main is the reeltalk CLI entry point.
package main

import (
	"github.com/reeltalk/reeltalk/internal/cli"
)

func main() {
	cli.Execute()
}
