package main

import "github.com/pkv-db/pKV/cmd"

func main() {
	cmd.Execute()
}
