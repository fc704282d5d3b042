package logger

import (
	"fmt"
	log "github.com/sirupsen/logrus"
	"heater-inference/config"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var (
	mutexLogging sync.Mutex
	lineCounter  = 0
)

// Number of log lines between two checks of the log file size
const linesBetweenSizeChecks = 100

type Impl struct {
	LogFile        *os.File
	FileName       string
	MaxLogfileSize int64
}

type Logger interface {
	Fatal(err error)
	Error(logMessage error)
	ErrorWithText(logMessage string)
	Warn(logMessage string)
	Info(logMessage string)
	Debug(logMessage string)
	replaceLogFile() error
	logFileIsTooLarge() bool

	Close()
}

// NewLogger opens (or creates) the log file and points logrus at it. maxLogfileSize is in MB.
var NewLogger = func(fileName string, maxLogfileSize int64) (Logger, error) {
	if dir := filepath.Dir(fileName); dir != "" {
		_ = os.MkdirAll(dir, 0755)
	}
	logFile, err := os.OpenFile(fileName, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	log.SetFormatter(&log.TextFormatter{QuoteEmptyFields: true, ForceColors: true, FullTimestamp: true})
	log.SetReportCaller(true)
	log.SetLevel(log.InfoLevel)
	if err != nil {
		// Cannot open log file. Logging to stderr
		fmt.Println(err)
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(logFile)
	}

	return &Impl{
		LogFile:        logFile,
		FileName:       fileName,
		MaxLogfileSize: maxLogfileSize,
	}, err
}

func (i *Impl) ErrorWithText(logMessage string) {
	i.write(func() { log.Error(logMessage) })
}

func (i *Impl) Error(err error) {
	i.write(func() { log.Error(err) })
}

func (i *Impl) Warn(logMessage string) {
	i.write(func() { log.Warn(logMessage) })
}

func (i *Impl) Info(logMessage string) {
	i.write(func() { log.Info(logMessage) })
}

func (i *Impl) Debug(logMessage string) {
	i.write(func() { log.Debug(logMessage) })
}

func (i *Impl) Fatal(err error) {
	mutexLogging.Lock()
	defer mutexLogging.Unlock()

	log.Fatal(err)
}

func (i *Impl) write(logLine func()) {
	mutexLogging.Lock()
	defer mutexLogging.Unlock()

	lineCounter++

	logLine()
	if i.logFileIsTooLarge() {
		err := i.replaceLogFile()
		if err != nil {
			log.Error(err)
			return
		}
	}
}

func (i *Impl) replaceLogFile() error {

	log.Info("Archiving existing log file")

	// Replace the log file
	err := i.LogFile.Close()
	if err != nil {
		return err
	}
	extension := filepath.Ext(i.FileName)
	newFileName := strings.TrimSuffix(i.FileName, extension) + "_" + time.Now().Format(config.GetFileDateLayout()) + extension
	err = os.Rename(i.FileName, newFileName)
	if err != nil {
		i.LogFile, _ = os.OpenFile(i.FileName, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		log.SetOutput(i.LogFile)
		return err
	}
	// Create a new file
	i.LogFile, err = os.OpenFile(i.FileName, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return err
	}
	log.SetOutput(i.LogFile)
	return nil
}

func (i *Impl) logFileIsTooLarge() bool {
	if i.LogFile == nil || lineCounter < linesBetweenSizeChecks {
		return false
	}
	lineCounter = 0

	fileInfo, err := os.Stat(i.FileName)
	if err != nil {
		log.Error("Error:", err)
		return false
	}
	return fileInfo.Size()/(1024*1024) >= i.MaxLogfileSize
}

func (i *Impl) Close() {
	//Don't forget to close the log file
	if i.LogFile != nil {
		i.LogFile.Close()
	}
}
