//go:build board_nucleo_f722ze

package boards

var Selected = NucleoF722ZE
