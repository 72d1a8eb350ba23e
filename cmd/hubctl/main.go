package main

import "mammy-coker-hub/internal/cli"

func main() {
	cli.Execute()
}
