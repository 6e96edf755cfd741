package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Level représente le niveau d'une notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification est un message transitoire destiné à l'utilisateur
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier affiche des notifications non bloquantes
type Notifier interface {
	Notify(level Level, message string)
}

var styles = map[Level]lipgloss.Style{
	LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#2E7D32")).Bold(true),
	LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#1565C0")),
	LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#EF6C00")).Bold(true),
	LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#C62828")).Bold(true),
}

var icons = map[Level]string{
	LevelSuccess: "✅",
	LevelInfo:    "ℹ️",
	LevelWarning: "⚠️",
	LevelError:   "❌",
}

// ConsoleNotifier écrit les notifications sur un terminal et les trace dans le logger
type ConsoleNotifier struct {
	mu     sync.Mutex
	out    io.Writer
	logger *zap.Logger
}

// NewConsoleNotifier crée un notifier console
func NewConsoleNotifier(out io.Writer, logger *zap.Logger) *ConsoleNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleNotifier{out: out, logger: logger}
}

// Notify affiche la notification
func (n *ConsoleNotifier) Notify(level Level, message string) {
	style, ok := styles[level]
	if !ok {
		style = styles[LevelInfo]
	}

	n.mu.Lock()
	fmt.Fprintln(n.out, style.Render(icons[level]+" "+message))
	n.mu.Unlock()

	switch level {
	case LevelError:
		n.logger.Error("notification", zap.String("message", message))
	case LevelWarning:
		n.logger.Warn("notification", zap.String("message", message))
	default:
		n.logger.Debug("notification", zap.String("level", string(level)), zap.String("message", message))
	}
}

// Recorder garde les notifications en mémoire (réponses HTTP, tests)
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify enregistre la notification
func (r *Recorder) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: level, Message: message})
}

// Notifications retourne une copie des notifications enregistrées
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}
