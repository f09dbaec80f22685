package main

import "github.com/qara-wq/flashorca-ally-devnet-sub000/cmd"

func main() {
	cmd.Execute()
}
