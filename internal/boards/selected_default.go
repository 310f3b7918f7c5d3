//go:build !board_nucleo_f722ze && !board_disco_f769ni

package boards

// Selected is the profile the firmware entry point brings up.
var Selected = NucleoF767ZI
