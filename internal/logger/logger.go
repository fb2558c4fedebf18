package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

const flags = log.LstdFlags | log.Lshortfile

// До вызова Init логи пишутся в stderr
var (
	InfoLog   = log.New(os.Stderr, "INFO ", flags)
	ErrorLog  = log.New(os.Stderr, "ERROR ", flags)
	AccessLog = log.New(os.Stderr, "", log.LstdFlags)

	files []*os.File
)

// Init переключает логгеры на файлы info.log, error.log и access.log в logsPath
func Init(logsPath string) error {
	if err := os.MkdirAll(logsPath, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	var opened []*os.File
	for _, name := range []string{"info.log", "error.log", "access.log"} {
		f, err := os.OpenFile(filepath.Join(logsPath, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			for _, o := range opened {
				o.Close()
			}
			return fmt.Errorf("failed to open %s: %w", name, err)
		}
		opened = append(opened, f)
	}

	files = opened
	InfoLog = log.New(opened[0], "", flags)
	ErrorLog = log.New(opened[1], "", flags)
	AccessLog = log.New(opened[2], "", log.LstdFlags)

	InfoLog.Printf("Logger initialized. Logs directory: %s", logsPath)
	return nil
}

// Cleanup закрывает файлы логов и возвращает логгеры в stderr
func Cleanup() error {
	var first error
	for _, f := range files {
		f.Sync()
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	files = nil

	InfoLog = log.New(os.Stderr, "INFO ", flags)
	ErrorLog = log.New(os.Stderr, "ERROR ", flags)
	AccessLog = log.New(os.Stderr, "", log.LstdFlags)
	return first
}
