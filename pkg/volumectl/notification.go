package volumectl

import (
	"fmt"
	"math"
)

// replace ids, notifications of the same device class replace each other
const (
	outputNotificationID uint32 = 0x49adff07
	inputNotificationID  uint32 = 0x49adff08
)

const (
	lowLevelThreshold    = 100.0 / 3.0
	mediumLevelThreshold = 100.0 * 2.0 / 3.0
)

// NotificationStyle is the fixed presentation of one device class
type NotificationStyle struct {
	Name       string
	IconPrefix string
	ID         uint32
}

// Notification is a rendered volume notification, ready for delivery
type Notification struct {
	Summary string
	Icon    string
	ID      uint32

	// rounded level of the loudest channel, sent as the "value" hint
	Level int
}

// RenderNotification describes volumes for display
func RenderNotification(style NotificationStyle, volumes Volumes) Notification {
	level := volumes.MaxPercentage()

	summary := fmt.Sprintf("%s: %.0f%%", style.Name, level)
	if volumes.Muted {
		summary = fmt.Sprintf("%s: muted (%.0f%%)", style.Name, level)
	}

	return Notification{
		Summary: summary,
		Icon:    fmt.Sprintf("%s-%s", style.IconPrefix, iconSuffix(volumes.Muted, level)),
		ID:      style.ID,
		Level:   int(math.Round(level)),
	}
}

func iconSuffix(muted bool, level float64) string {
	switch {
	case muted:
		return "muted"
	case level <= lowLevelThreshold:
		return "low"
	case level < mediumLevelThreshold:
		return "medium"
	default:
		return "high"
	}
}
