package main

import "github.com/masmgr/devcap-go/cmd"

func main() {
	cmd.Run()
}
