package main

import "os"

// GetEnv returns the value of key, or def when unset
func GetEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
