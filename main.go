package main

import (
	"stm32blink/blink"
	"stm32blink/bus"
	"stm32blink/internal/boards"
	"stm32blink/internal/platform"
	"stm32blink/services/config"
	"stm32blink/x/halt"
)

func main() {
	println("boot")

	if err := platform.Install(); err != nil {
		halt.Fatal("platform.install", err)
	}

	b := bus.NewBus(4)
	config.NewConfigService().Publish(b.NewConnection("config"), boards.Selected)

	board, err := blink.Startup(nil, boards.Selected, blink.WithBus(b.NewConnection("blink")))
	if err != nil {
		halt.Fatal("blink.startup", err)
	}
	board.Forever()
}
