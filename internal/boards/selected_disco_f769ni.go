//go:build board_disco_f769ni && !board_nucleo_f722ze

package boards

var Selected = DiscoF769NI
