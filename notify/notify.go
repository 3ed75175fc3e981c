package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/jrsteele09/go-admin-console/internal/ansi"
	"github.com/rs/zerolog"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notification struct {
	Level   Level
	Message string
}

// Notifier shows transient messages to the operator.
type Notifier interface {
	Notify(n Notification)
}

func Success(n Notifier, msg string) { n.Notify(Notification{Level: LevelSuccess, Message: msg}) }
func Error(n Notifier, msg string)   { n.Notify(Notification{Level: LevelError, Message: msg}) }

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(Notification) {}

var levelColours = map[Level]string{
	LevelSuccess: ansi.GreenInverse,
	LevelInfo:    ansi.CyanInverse,
	LevelWarning: ansi.YellowInverse,
	LevelError:   ansi.RedInverse,
}

// Printer writes one line per notification, coloured when Colour is set.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	colour bool
}

func NewPrinter(w io.Writer, colour bool) *Printer {
	return &Printer{w: w, colour: colour}
}

func (p *Printer) Notify(n Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tag := fmt.Sprintf(" %-7s ", n.Level)
	if p.colour {
		tag = ansi.Paint(levelColours[n.Level], tag)
	}
	fmt.Fprintf(p.w, "%s %s\n", tag, n.Message)
}

// LogNotifier sends notifications to a zerolog logger.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (l LogNotifier) Notify(n Notification) {
	ev := l.Logger.Info()
	switch n.Level {
	case LevelError:
		ev = l.Logger.Error()
	case LevelWarning:
		ev = l.Logger.Warn()
	}
	ev.Str("level_ui", string(n.Level)).Msg(n.Message)
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(n Notification) {
	for _, target := range m {
		target.Notify(n)
	}
}
