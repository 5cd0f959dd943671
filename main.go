package main

import "github.com/gaurav-prasanna/booksplit/cmd"

func main() {
	cmd.Execute()
}
