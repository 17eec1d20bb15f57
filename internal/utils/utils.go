package utils

import (
	"fmt"
	"os"
	"strconv"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/segmentio/ksuid"

	"relDB/internal/logger"
)

var log = logger.NewLogger()

func GetEnvOrDefault(env, defaultVal string) string {
	e := os.Getenv(env)
	if e == "" {
		return defaultVal
	}
	return e
}

func GetEnvOrDefaultInt(env string, defaultVal int64) int64 {
	e := os.Getenv(env)
	if e == "" {
		return defaultVal
	}
	intVal, err := strconv.ParseInt(e, 10, 64)
	if err != nil {
		log.Error().Msg(fmt.Sprintf("Failed to parse string to int '%s'", env))
		os.Exit(1)
	}
	return intVal
}

const idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenRandomString returns n random alphanumerics.
func GenRandomString(n int) string {
	return gonanoid.MustGenerate(idAlphabet, n)
}

func GenKSortedID(prefix string) string {
	return prefix + ksuid.New().String()
}
