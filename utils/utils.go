package utils

import (
	"fmt"
	"heater-inference/config"
	"runtime"
	"time"
)

// FormatDate formats a timestamp for logs and the run table
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(config.GetJSONDateLayoutLong())
}

// ParseDate parses a timestamp written by FormatDate. The empty string is the zero time.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(config.GetJSONDateLayoutLong(), value)
}

// MemUsage returns a summary of the memory used by the program
func MemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return fmt.Sprintf("Alloc = %v MiB\tTotalAlloc = %v MiB\tSys = %v MiB\tNumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

// PrintMemUsage logs the memory used by the program
func PrintMemUsage(logFileLogger interface{ Debug(string) }) {
	logFileLogger.Debug(MemUsage())
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
