package main

import "github.com/emiliopalmerini/pricepaid/internal/cli"

func main() {
	cli.Execute()
}
