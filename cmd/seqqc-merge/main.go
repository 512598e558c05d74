// cmd/seqqc-merge/main.go
package main

import (
	"seqqc/internal/appshell"
	"seqqc/internal/mergeapp"
)

func main() { appshell.Main(mergeapp.RunContext) }
