package main

import "inspire/internal/cli"

func main() {
	cli.Execute()
}
