//go:build !tinygo

package platform

import "stm32blink/periph"

var hostSim *Sim

// Install registers a real-time simulated chip as the process arena so the
// firmware entry point runs unchanged on a development machine.
func Install() error {
	s := NewSim(SimOptions{RealTime: true})
	if err := periph.Install(s); err != nil {
		return err
	}
	hostSim = s
	println("Info: platform: simulated stm32f7 installed")
	return nil
}

// HostSim exposes the installed simulator, or nil before Install.
func HostSim() *Sim { return hostSim }
