package volumectl

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	notificationsBusName    = "org.freedesktop.Notifications"
	notificationsObjectPath = "/org/freedesktop/Notifications"
	notifyMethod            = notificationsBusName + ".Notify"

	appName = "volume-ctl"

	// hint read by notification daemons that can draw a progress bar
	valueHintName = "value"
)

// Notifier provides a generic interface for sending notifications
type Notifier interface {
	Notify(title string, message string)
}

// ToastNotifier provides toast notifications through beeep
type ToastNotifier struct {
	logger *zap.SugaredLogger
	toast  func(title, message, icon string) error
}

// NewToastNotifier creates a new ToastNotifier
func NewToastNotifier(logger *zap.SugaredLogger) (*ToastNotifier, error) {
	logger = logger.Named("notifier")
	tn := &ToastNotifier{logger: logger, toast: beeepToast}

	logger.Debug("Created toast notifier instance")

	return tn, nil
}

func beeepToast(title, message, icon string) error {
	beeep.AppName = appName
	return beeep.Notify(title, message, icon)
}

// Notify sends a toast notification, failures are logged and dropped
func (tn *ToastNotifier) Notify(title string, message string) {
	if err := tn.show(title, message, "dialog-information"); err != nil {
		tn.logger.Warnw("Failed to send toast notification", "error", err)
	}
}

func (tn *ToastNotifier) show(title, message, icon string) error {
	tn.logger.Debugw("Sending toast notification", "title", title, "message", message)

	if err := tn.toast(title, message, icon); err != nil {
		return fmt.Errorf("send toast notification: %w", err)
	}

	return nil
}

// busObject is the part of dbus.BusObject we call into
type busObject interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// DBusNotifier delivers volume notifications straight to the freedesktop
// notification service, which supports replacing earlier notifications and
// sending hints
type DBusNotifier struct {
	logger *zap.SugaredLogger

	connect  func() (busObject, error)
	obj      busObject
	fallback *ToastNotifier

	progressHint bool
	timeout      int32
}

// NewDBusNotifier creates a notifier that connects to the session bus on first use.
// fallback may be nil.
func NewDBusNotifier(logger *zap.SugaredLogger, fallback *ToastNotifier, cfg NotificationConfig) *DBusNotifier {
	return &DBusNotifier{
		logger:       logger.Named("dbus_notifier"),
		connect:      sessionBusNotifications,
		fallback:     fallback,
		progressHint: cfg.ProgressHint,
		timeout:      cfg.TimeoutMs,
	}
}

func sessionBusNotifications() (busObject, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}

	return conn.Object(notificationsBusName, notificationsObjectPath), nil
}

// Show delivers n, trying the toast notifier if D-Bus delivery fails.
// Failures are only logged.
func (dn *DBusNotifier) Show(n Notification) {
	err := dn.notify(n)
	if err == nil {
		return
	}

	dn.logger.Warnw("Failed to show notification", "error", err)

	if dn.fallback == nil {
		return
	}

	if err := dn.fallback.show(n.Summary, "", n.Icon); err != nil {
		dn.logger.Warnw("Failed to show fallback notification", "error", err)
	}
}

func (dn *DBusNotifier) notify(n Notification) error {
	if dn.obj == nil {
		obj, err := dn.connect()
		if err != nil {
			return err
		}
		dn.obj = obj
	}

	hints := map[string]dbus.Variant{}
	if dn.progressHint {
		hints[valueHintName] = dbus.MakeVariant(int32(n.Level))
	}

	dn.logger.Debugw("Sending notification",
		"summary", n.Summary,
		"icon", n.Icon,
		"replacesID", n.ID,
		"level", n.Level)

	call := dn.obj.Call(notifyMethod, 0,
		appName,
		n.ID,
		n.Icon,
		n.Summary,
		"",
		[]string{},
		hints,
		dn.timeout)
	if call.Err != nil {
		return fmt.Errorf("call %s: %w", notifyMethod, call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("read notification id: %w", err)
	}

	dn.logger.Debugw("Notification shown", "id", id)

	return nil
}
