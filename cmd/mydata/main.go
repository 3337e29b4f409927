package main

import (
	"github.com/promethean-light/mydata/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
