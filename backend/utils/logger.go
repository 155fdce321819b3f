package utils

import (
	"log"
	"os"
)

// InitLogger returns the application logger. Output defaults to stdout.
func InitLogger(output ...*os.File) *log.Logger {
	out := os.Stdout
	if len(output) > 0 && output[0] != nil {
		out = output[0]
	}
	return log.New(out, "[EAD Platform] ", log.LstdFlags|log.LUTC)
}
