package main

import "github.com/hollyoak/warden/internal/cli"

func main() {
	cli.Execute()
}
