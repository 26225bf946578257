package services

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// SystemStats is the host snapshot reported by the health endpoint.
type SystemStats struct {
	CapturedAt        time.Time `json:"capturedAt"`
	Goroutines        int       `json:"goroutines"`
	ProcessRSSBytes   int64     `json:"processRssBytes"`
	SystemMemoryTotal int64     `json:"systemMemoryTotalBytes"`
	SystemMemoryUsed  int64     `json:"systemMemoryUsedBytes"`
	DiskTotalBytes    int64     `json:"diskTotalBytes"`
	DiskUsedBytes     int64     `json:"diskUsedBytes"`
	ProcessCPULoad    float64   `json:"processCpuLoad"`
	SystemCPULoad     float64   `json:"systemCpuLoad"`
}

// CaptureSystemStats never fails: values that cannot be read stay zero.
func CaptureSystemStats(diskPath string) SystemStats {
	stats := SystemStats{
		CapturedAt: time.Now().UTC(),
		Goroutines: runtime.NumGoroutine(),
	}
	if memStat, err := mem.VirtualMemory(); err == nil {
		stats.SystemMemoryTotal = int64(memStat.Total)
		stats.SystemMemoryUsed = int64(memStat.Total - memStat.Available)
	}
	diskStat, err := disk.Usage(diskPath)
	if err != nil {
		diskStat, err = disk.Usage("/")
	}
	if err == nil && diskStat != nil {
		stats.DiskTotalBytes = int64(diskStat.Total)
		stats.DiskUsedBytes = int64(diskStat.Used)
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if rss, err := proc.MemoryInfo(); err == nil && rss != nil {
			stats.ProcessRSSBytes = int64(rss.RSS)
		}
		if perc, err := proc.CPUPercent(); err == nil {
			stats.ProcessCPULoad = perc / 100.0
		}
	}
	if sysCPU, err := cpu.Percent(0, false); err == nil && len(sysCPU) > 0 {
		stats.SystemCPULoad = sysCPU[0] / 100.0
	}
	return stats
}
