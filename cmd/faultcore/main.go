package main

import "github.com/vietddude/faultcore/internal/cli"

func main() {
	cli.Execute()
}
