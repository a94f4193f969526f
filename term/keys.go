package term

import (
	"github.com/gdamore/tcell/v2"

	"gridsnake/game/types"
	"gridsnake/runner"
)

// Action is what a key press asks the frontend to do
type Action int

const (
	ActionNone Action = iota
	ActionCommand
	ActionToggleSound
	ActionQuit
)

// KeyAction translates a key event. The command is only meaningful when the
// action is ActionCommand.
func KeyAction(ev *tcell.EventKey) (Action, runner.Command) {
	return Translate(ev.Key(), ev.Rune())
}

// Translate maps a key and rune to an action. Arrows and WASD steer, Enter
// starts, Space or P pauses, R resets, M mutes, and Q, Esc or Ctrl-C quit.
func Translate(key tcell.Key, r rune) (Action, runner.Command) {
	switch key {
	case tcell.KeyUp:
		return steer(types.UP)
	case tcell.KeyDown:
		return steer(types.DOWN)
	case tcell.KeyLeft:
		return steer(types.LEFT)
	case tcell.KeyRight:
		return steer(types.RIGHT)
	case tcell.KeyEnter:
		return ActionCommand, runner.Command{Kind: runner.CmdStart}
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit, runner.Command{}
	case tcell.KeyRune:
	default:
		return ActionNone, runner.Command{}
	}

	switch r {
	case 'w', 'W':
		return steer(types.UP)
	case 's', 'S':
		return steer(types.DOWN)
	case 'a', 'A':
		return steer(types.LEFT)
	case 'd', 'D':
		return steer(types.RIGHT)
	case ' ', 'p', 'P':
		return ActionCommand, runner.Command{Kind: runner.CmdTogglePause}
	case 'r', 'R':
		return ActionCommand, runner.Command{Kind: runner.CmdReset}
	case 'm', 'M':
		return ActionToggleSound, runner.Command{}
	case 'q', 'Q':
		return ActionQuit, runner.Command{}
	}
	return ActionNone, runner.Command{}
}

func steer(d types.Direction) (Action, runner.Command) {
	return ActionCommand, runner.Command{Kind: runner.CmdSteer, Direction: d}
}
