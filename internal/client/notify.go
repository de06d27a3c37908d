package client

// Level grades a notification.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notification is a short message for the user, shown as a toast or a CLI line.
type Notification struct {
	Level   Level
	Message string
	Err     error
}

// Notifier receives notifications from the controller.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notification) {}
