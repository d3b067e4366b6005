package utils

import (
	"strconv"
)

// StringToInt converts a string to int, returning 0 on failure.
func StringToInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// StringToUint converts a string to uint, returning 0 on failure.
func StringToUint(s string) uint {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}
