package logger

import "fmt"

// Icons used by the CLI for progress reporting
const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconArrow   = "→"
	IconBullet  = "•"
)

// Success logs a message with a success icon
func Success(format string, args ...interface{}) {
	Info(IconSuccess + " " + fmt.Sprintf(format, args...))
}

// Failure logs a message with an error icon
func Failure(format string, args ...interface{}) {
	Error(IconError + " " + fmt.Sprintf(format, args...))
}

// Progress logs a message with an arrow icon
func Progress(format string, args ...interface{}) {
	Info(IconArrow + " " + fmt.Sprintf(format, args...))
}

// Section logs a visual section separator with a title
func Section(title string) {
	Info("")
	Info("━━━ " + title + " ━━━")
}
