package main

import "github.com/aavadhan10/ogc-dashboard/internal/cli"

func main() {
	cli.Execute()
}
