package main

import "github.com/tantalor93/dohrace/cmd"

func main() {
	cmd.Execute()
}
