package observability

import "log"

type Logger interface {
	Info(msg string)
	Error(msg string)
}

type stdLogger struct{}

func NewLogger() Logger {
	return stdLogger{}
}

func (stdLogger) Info(msg string) {
	log.Println("INFO " + msg)
}

func (stdLogger) Error(msg string) {
	log.Println("ERROR " + msg)
}
