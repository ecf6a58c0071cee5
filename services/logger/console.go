package logsvc

import (
	"log"

	"github.com/innexgo/hours-go/core"
)

type ConsoleLogger struct {
	std *log.Logger
}

var _ core.Logger = (*ConsoleLogger)(nil)

func NewConsoleLogger(std *log.Logger) *ConsoleLogger {
	return &ConsoleLogger{std: std}
}

func (l ConsoleLogger) Info(msg string, args ...interface{}) {
	l.print("INFO: "+msg, args)
}

func (l ConsoleLogger) Error(msg string, err error, args ...interface{}) {
	l.std.Printf("ERROR: %s: %+v\n", msg, err)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l ConsoleLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}
