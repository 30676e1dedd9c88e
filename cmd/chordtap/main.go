package main

import "github.com/leandrodaf/chordtap/internal/cli"

func main() {
	cli.Execute()
}
