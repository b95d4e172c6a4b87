package volumectl

import (
	"fmt"
	"math"
	"strconv"
)

// Action is one of the operations a user can request on a device
type Action int

const (
	ActionUp Action = iota
	ActionDown
	ActionSet
	ActionMute
	ActionUnmute
	ActionToggleMute

	// ActionGet only reports the current state
	ActionGet
)

var actionNames = map[Action]string{
	ActionUp:         "up",
	ActionDown:       "down",
	ActionSet:        "set",
	ActionMute:       "mute",
	ActionUnmute:     "unmute",
	ActionToggleMute: "toggle-mute",
	ActionGet:        "get",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}

	return fmt.Sprintf("action(%d)", int(a))
}

// TakesValue reports whether the action needs a percentage argument
func (a Action) TakesValue() bool {
	return a == ActionUp || a == ActionDown || a == ActionSet
}

// Mutates reports whether the action changes device state
func (a Action) Mutates() bool {
	return a != ActionGet
}

// Command is an action with its percentage, if any
type Command struct {
	Action Action
	Value  float64
}

func (c Command) String() string {
	if c.Action.TakesValue() {
		return fmt.Sprintf("%s %g", c.Action, c.Value)
	}

	return c.Action.String()
}

// ParsePercentage parses a command line percentage such as "5" or "12.5"
func ParsePercentage(s string) (float64, error) {
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q", s)
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("invalid percentage %q: must be a finite number", s)
	}

	return value, nil
}

// Apply changes volumes according to the command. Channel levels are
// always kept within 0%..125%.
func (c Command) Apply(volumes *Volumes) {
	switch c.Action {
	case ActionUp:
		volumes.mapChannels(func(p float64) float64 { return p + c.Value })
	case ActionDown:
		volumes.mapChannels(func(p float64) float64 { return p - c.Value })
	case ActionSet:
		volumes.mapChannels(func(float64) float64 { return c.Value })
	case ActionMute:
		volumes.Muted = true
	case ActionUnmute:
		volumes.Muted = false
	case ActionToggleMute:
		volumes.Muted = !volumes.Muted
	case ActionGet:
	}
}
