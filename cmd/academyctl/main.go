package main

import "github.com/2beens/academy/internal/cli"

func main() {
	cli.Execute()
}
