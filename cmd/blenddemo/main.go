package main

import (
	_ "embed"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

//go:embed machine.yaml
var defaultMachineDef []byte

func main() {
	defPath := flag.String("def", "", "machine definition yaml (empty uses the built-in definition, set for hot reload)")
	scriptPath := flag.String("script", "", "tengo controller script driving the parameters")
	debug := flag.Bool("debug", false, "log transitions and signal events")
	flag.Parse()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("blendmachine demo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	game := NewGame(*defPath, *scriptPath, *debug)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
