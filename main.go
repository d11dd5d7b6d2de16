package main

import "github.com/cockroachdb/tablediff/cmd"

func main() {
	cmd.Execute()
}
