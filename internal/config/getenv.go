package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

type getenv struct {
	errs []error
}

func (ge *getenv) Err() error {
	return errors.Join(ge.errs...)
}

type parseFunc[T any] func(s string) (T, error)

func getValue[T any](key string, defaultValue T, parse parseFunc[T]) (T, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return defaultValue, nil
	}
	v, err := parse(s)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func (ge *getenv) String(key string, defaultValue string) string {
	v, _ := getValue(key, defaultValue, func(s string) (string, error) {
		return s, nil
	})
	return v
}

// Strings splits on commas and whitespace.
func (ge *getenv) Strings(key string, defaultValue []string) []string {
	v, _ := getValue(key, defaultValue, func(s string) ([]string, error) {
		return strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		}), nil
	})
	return v
}

func (ge *getenv) Duration(key string, defaultValue time.Duration) time.Duration {
	v, err := getValue(key, defaultValue, time.ParseDuration)
	if err != nil {
		ge.errs = append(ge.errs, err)
	}
	return v
}
