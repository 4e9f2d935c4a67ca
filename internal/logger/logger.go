package logger

import (
	"fmt"
	"log"
	"os"
)

var (
	debugMode   bool
	debugLogger = log.New(os.Stderr, "[DEBUG] ", log.Ldate|log.Ltime|log.Lshortfile)
	infoLogger  = log.New(os.Stderr, "[INFO] ", log.Ldate|log.Ltime)
	errorLogger = log.New(os.Stderr, "[ERROR] ", log.Ldate|log.Ltime|log.Lshortfile)
)

func SetDebugMode(enabled bool) {
	debugMode = enabled
	if debugMode {
		Debug("Debug mode enabled")
	}
}

func IsDebugMode() bool {
	return debugMode
}

func Debug(format string, args ...interface{}) {
	if debugMode {
		_ = debugLogger.Output(2, fmt.Sprintf(format, args...))
	}
}

func Info(format string, args ...interface{}) {
	infoLogger.Printf(format, args...)
}

func Error(format string, args ...interface{}) {
	_ = errorLogger.Output(2, fmt.Sprintf(format, args...))
}

// LogRequest logs an incoming HTTP request in debug mode.
func LogRequest(method, path, remoteAddr string) {
	Debug("HTTP %s %s from %s", method, path, remoteAddr)
}

// LogResponse logs a completed HTTP request in debug mode.
func LogResponse(method, path string, statusCode int, duration string) {
	Debug("HTTP %s %s -> %d (%s)", method, path, statusCode, duration)
}
