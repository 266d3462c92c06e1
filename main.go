package main

import (
	"github.com/bcdannyboy/optpricer/cli"
)

func main() {
	cli.Execute()
}
