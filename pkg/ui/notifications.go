package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// NotificationSender delivers a desktop notification
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender uses notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	return exec.Command("notify-send", "--app-name=docharvest", title, message).Run()
}

// MacOSNotificationSender uses osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification %s with title %s`, appleScriptString(message), appleScriptString(title))
	return exec.Command("osascript", "-e", script).Run()
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// Notifier echoes completion messages to a console and, when a sender is
// available, to the desktop
type Notifier struct {
	console *Console
	sender  NotificationSender
}

// NewNotifier creates a notifier for the current platform. Desktop delivery
// is skipped when desktop is false or the platform has no sender.
func NewNotifier(console *Console, desktop bool) *Notifier {
	if console == nil {
		console = std
	}
	n := &Notifier{console: console}
	if !desktop {
		return n
	}
	switch runtime.GOOS {
	case "linux":
		n.sender = &LinuxNotificationSender{}
	case "darwin":
		n.sender = &MacOSNotificationSender{}
	}
	return n
}

// WithSender replaces the desktop sender
func (n *Notifier) WithSender(s NotificationSender) *Notifier {
	n.sender = s
	return n
}

// SendSuccess reports a completed run
func (n *Notifier) SendSuccess(title, message string) {
	n.console.Success(fmt.Sprintf("%s: %s", title, message))
	n.send(title, message)
}

// SendError reports a failed run
func (n *Notifier) SendError(title, message string) {
	n.console.Error(title, fmt.Errorf("%s", message))
	n.send(title, message)
}

func (n *Notifier) send(title, message string) {
	if n.sender == nil {
		return
	}
	// notifications are best effort
	_ = n.sender.Send(title, message)
}
