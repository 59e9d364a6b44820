package tui

const (
	keyCtrlC = "ctrl+c"
	keyEsc   = "esc"
	keyEnter = "enter"
	keyBack  = "backspace"
	keyCtrlL = "ctrl+l"
	keyUp    = "up"
	keyDown  = "down"
)

// Slash commands typed into the input line.
const (
	cmdReset = "/reset"
	cmdQuit  = "/quit"
)
