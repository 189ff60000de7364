package main

import (
	"github.com/madlabman/solhint-plugin-lido-csm/cmd"
	_ "github.com/madlabman/solhint-plugin-lido-csm/rules/naming"
)

var version = "v0.1.0"

func main() {
	cmd.Execute(version)
}
