package config

import "os"

func IsDebug() bool {
	return os.Getenv("RECALL_DEBUG") == "1"
}

// IsJSONLog is read before the runtime .env is loaded, so it checks the process environment.
func IsJSONLog() bool {
	return os.Getenv("RECALL_LOG_FORMAT") == "json"
}
