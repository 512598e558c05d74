// cmd/seqqc/main.go
package main

import (
	"seqqc/internal/app"
	"seqqc/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
