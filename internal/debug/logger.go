package debug

import (
	"log"
	"os"
	"runtime"
	"time"
)

var enabled = false

func init() {
	enabled = os.Getenv("GADHUB_DEBUG_DASHBOARD") == "true"
	if enabled {
		log.Println("debug dashboard enabled")
	}
}

// IsEnabled reports whether the live debug dashboard is active.
func IsEnabled() bool {
	return enabled
}

// LogInfo sends an info-level log to the dashboard.
func LogInfo(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("backend", "info", message, metadata)
}

// LogWarn sends a warn-level log to the dashboard.
func LogWarn(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("backend", "warn", message, metadata)
}

// LogError sends an error-level log to the dashboard.
func LogError(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("backend", "error", message, metadata)
}

// StartHeartbeat pushes runtime metrics to the dashboard on an interval.
// Call once from main; returns immediately when the dashboard is disabled.
func StartHeartbeat(interval time.Duration) {
	if !enabled {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			var mem runtime.MemStats
			runtime.ReadMemStats(&mem)
			SendMetrics([]Metric{
				{Name: "Goroutines", Value: runtime.NumGoroutine()},
				{Name: "Heap", Value: mem.HeapAlloc / 1024 / 1024, Unit: "MB"},
				{Name: "Uptime", Value: Uptime(), Unit: "s"},
			})
		}
	}()
}
