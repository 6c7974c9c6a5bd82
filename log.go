package ilp

// Logger receives warnings and diagnostic dumps. *log.Logger satisfies it.
type Logger interface {
	Print(v ...interface{})
}

type noopLogger struct{}

func (noopLogger) Print(v ...interface{}) {}
