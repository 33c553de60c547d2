package reporting

// Level is the severity of a user-facing notification.
type Level string

const (
	LevelInfo    Level = "Info"
	LevelWarning Level = "Warning"
	LevelError   Level = "Error"
)

// String makes Level satisfy the fmt.Stringer interface.
func (l Level) String() string {
	return string(l)
}

// Progress reports how far a lifecycle operation has got. Percentages are
// absolute, not increments.
type Progress interface {
	Begin(title string)
	Report(percent int, label string)
	// End closes the progress scope; err is nil on success.
	End(err error)
}

// Notifier shows messages to the user.
type Notifier interface {
	Notify(level Level, message string)
}

// NopProgress discards progress.
type NopProgress struct{}

func (NopProgress) Begin(string)       {}
func (NopProgress) Report(int, string) {}
func (NopProgress) End(error)          {}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(Level, string) {}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(level Level, message string)

func (f NotifierFunc) Notify(level Level, message string) {
	f(level, message)
}
