// Package notify delivers user-visible notifications: every mutation
// failure surfaces as a titled, described message, every success as a short
// confirmation. The console channel writes to the terminal; tests swap in
// the Recorder.
package notify

import (
	"fmt"
	"io"
	"os"
)

// Level classifies a notification for rendering.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one user-visible message.
type Notification struct {
	Level       Level
	Title       string
	Description string
}

// Notifier delivers notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

// Console renders notifications as terminal lines.
type Console struct {
	Out io.Writer
}

// NewConsole returns a Console writing to stderr, keeping stdout clean for
// table output.
func NewConsole() *Console {
	return &Console{Out: os.Stderr}
}

func (c *Console) Notify(n Notification) {
	prefix := map[Level]string{
		LevelInfo:    "•",
		LevelSuccess: "✔",
		LevelError:   "✖",
	}[n.Level]

	if n.Description == "" {
		fmt.Fprintf(c.Out, "%s %s\n", prefix, n.Title)
		return
	}
	fmt.Fprintf(c.Out, "%s %s — %s\n", prefix, n.Title, n.Description)
}

// Success delivers a success notification.
func Success(to Notifier, title, description string) {
	to.Notify(Notification{Level: LevelSuccess, Title: title, Description: description})
}

// Error delivers an error notification.
func Error(to Notifier, title, description string) {
	to.Notify(Notification{Level: LevelError, Title: title, Description: description})
}

// Info delivers an informational notification.
func Info(to Notifier, title, description string) {
	to.Notify(Notification{Level: LevelInfo, Title: title, Description: description})
}

// Recorder collects notifications for assertions in tests.
type Recorder struct {
	Sent []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.Sent = append(r.Sent, n)
}
