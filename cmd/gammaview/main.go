package main

import "github.com/OpenGammaLab/gammaview/cmd/gammaview/cmd"

func main() {
	cmd.Execute()
}
