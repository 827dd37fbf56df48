package main

import "si-components/internal/cli"

func main() {
	cli.Execute()
}
