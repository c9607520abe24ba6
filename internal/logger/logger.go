package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

var (
	infoLogger  = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	warnLogger  = log.New(os.Stdout, "WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
	errorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	debugLogger = log.New(os.Stdout, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
)

// Init resets the loggers to their default destinations. Safe to call
// more than once; package-level defaults are usable without it.
func Init() {
	infoLogger.SetOutput(os.Stdout)
	warnLogger.SetOutput(os.Stdout)
	errorLogger.SetOutput(os.Stderr)
	debugLogger.SetOutput(os.Stdout)
}

// SetOutput redirects every level to w. Used by tests.
func SetOutput(w io.Writer) {
	infoLogger.SetOutput(w)
	warnLogger.SetOutput(w)
	errorLogger.SetOutput(w)
	debugLogger.SetOutput(w)
}

func Info(msg string) {
	infoLogger.Output(2, msg)
}

func Infof(format string, v ...interface{}) {
	infoLogger.Output(2, fmt.Sprintf(format, v...))
}

func Warn(msg string) {
	warnLogger.Output(2, msg)
}

func Warnf(format string, v ...interface{}) {
	warnLogger.Output(2, fmt.Sprintf(format, v...))
}

func Error(msg string) {
	errorLogger.Output(2, msg)
}

func Errorf(format string, v ...interface{}) {
	errorLogger.Output(2, fmt.Sprintf(format, v...))
}

func Debug(msg string) {
	debugLogger.Output(2, msg)
}

func Debugf(format string, v ...interface{}) {
	debugLogger.Output(2, fmt.Sprintf(format, v...))
}

func Fatal(msg string) {
	errorLogger.Fatal(msg)
}

func Fatalf(format string, v ...interface{}) {
	errorLogger.Fatalf(format, v...)
}
