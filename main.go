package main

import (
	"CurrentFM/cmd"
)

func main() {
	cmd.Execute()
}
