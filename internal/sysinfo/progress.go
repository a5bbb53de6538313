package sysinfo

import (
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

func processID() int { return os.Getpid() }

// ProgressTracker wraps an encoderpipeline.Config.Progress callback with
// elapsed/ETA formatting and this process's CPU/RSS telemetry, printed at most once
// per reportInterval processed items.
type ProgressTracker struct {
	label          string
	total          int
	reportInterval int
	start          time.Time
	proc           *process.Process
}

// NewProgressTracker builds a tracker for a run of total items labeled
// label. reportInterval <= 0 means report every item.
func NewProgressTracker(label string, total, reportInterval int) *ProgressTracker {
	if reportInterval <= 0 {
		reportInterval = 1
	}
	t := &ProgressTracker{label: label, total: total, reportInterval: reportInterval, start: time.Now()}
	if p, err := process.NewProcess(int32(processID())); err == nil {
		t.proc = p
	}
	return t
}

// Callback returns a func(processed, total int) suitable for
// encoderpipeline.Config.Progress.
func (t *ProgressTracker) Callback() func(processed, total int) {
	return func(processed, total int) {
		if processed%t.reportInterval != 0 && processed != total {
			return
		}
		t.report(processed, total)
	}
}

func (t *ProgressTracker) report(processed, total int) {
	elapsed := time.Since(t.start).Seconds()
	if processed >= total {
		fmt.Printf("  %s %d/%d (100.0%%) - completed in %s%s\n", t.label, processed, total, formatDuration(elapsed), t.telemetrySuffix())
		return
	}
	percent := 0.0
	if total > 0 {
		percent = float64(processed) / float64(total) * 100
	}
	rate := float64(processed) / elapsed
	var eta string
	if rate > 0 {
		eta = formatDuration(float64(total-processed) / rate)
	} else {
		eta = "unknown"
	}
	fmt.Printf("  %s %d/%d (%.1f%%) - elapsed: %s - ETA: %s%s\n",
		t.label, processed, total, percent, formatDuration(elapsed), eta, t.telemetrySuffix())
}

func (t *ProgressTracker) telemetrySuffix() string {
	if t.proc == nil {
		return ""
	}
	cpuPercent, err := t.proc.CPUPercent()
	if err != nil {
		return ""
	}
	memInfo, err := t.proc.MemoryInfo()
	if err != nil {
		return ""
	}
	return fmt.Sprintf(" - cpu: %.1f%% - rss: %dMB", cpuPercent, memInfo.RSS/1024/1024)
}

// formatDuration renders seconds as a human-readable duration, matching
// the original encoder's progress_tracker.rs format_duration.
func formatDuration(secs float64) string {
	switch {
	case secs < 60:
		return fmt.Sprintf("%.1fs", secs)
	case secs < 3600:
		mins := int(secs / 60)
		rem := secs - float64(mins)*60
		return fmt.Sprintf("%dm %.0fs", mins, rem)
	default:
		hours := int(secs / 3600)
		rem := secs - float64(hours)*3600
		mins := int(rem / 60)
		remSecs := rem - float64(mins)*60
		return fmt.Sprintf("%dh %dm %.0fs", hours, mins, remSecs)
	}
}

// HostCPUPercent returns the host's aggregate CPU utilization over a brief
// sampling window, for a one-shot summary line rather than per-process
// tracking.
func HostCPUPercent() (float64, error) {
	percents, err := cpu.Percent(200*time.Millisecond, false)
	if err != nil || len(percents) == 0 {
		return 0, err
	}
	return percents[0], nil
}
