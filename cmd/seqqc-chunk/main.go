// cmd/seqqc-chunk/main.go
package main

import (
	"seqqc/internal/appshell"
	"seqqc/internal/chunkapp"
)

func main() { appshell.Main(chunkapp.RunContext) }
