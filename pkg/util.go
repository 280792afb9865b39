package mextract

import (
	"fmt"
)

func handle(format string) func(...any) error {
	return func(args ...any) error {
		return fmt.Errorf(format, args...)
	}
}

func Must(e error) {
	if e != nil {
		panic(e)
	}
}
