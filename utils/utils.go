package utils

import (
	"crypto/rand"
	"io"
	"math/big"
	"sort"

	log "github.com/sirupsen/logrus"
)

func Map[A any, B any](input []A, mapper func(A) B) []B {
	output := make([]B, len(input))
	for i, item := range input {
		output[i] = mapper(item)
	}
	return output
}

func Filter[A any](input []A, filter func(A) bool) []A {
	output := make([]A, 0)
	for _, item := range input {
		if filter(item) {
			output = append(output, item)
		}
	}
	return output
}

func Contains[A comparable](input []A, item A) bool {
	for _, i := range input {
		if i == item {
			return true
		}
	}
	return false
}

// SortedUniques drops duplicates and empty strings and sorts the rest.
func SortedUniques(input []string) []string {
	seen := make(map[string]bool, len(input))
	output := make([]string, 0, len(input))
	for _, item := range input {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		output = append(output, item)
	}
	sort.Strings(output)
	return output
}

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomString returns n characters drawn from a crypto random source.
func RandomString(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(alphanumeric)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		out[i] = alphanumeric[idx.Int64()]
	}
	return string(out)
}

func Closer(c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.WithError(err).Warn("close failed")
		}
	}
}
