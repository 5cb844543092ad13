package main

import "nathanbeddoewebdev/demodash/cmd"

func main() {
	cmd.Execute()
}
