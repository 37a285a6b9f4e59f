package main

import (
	"os"

	"thalamusd/internal/ctl"
)

func main() { os.Exit(ctl.Main()) }
