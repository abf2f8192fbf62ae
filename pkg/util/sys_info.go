package util

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// SystemInfo 健康检查返回的主机与进程概况
type SystemInfo struct {
	Hostname      string  `json:"hostname"`
	OS            string  `json:"os"`
	Platform      string  `json:"platform"`
	Arch          string  `json:"arch"`
	NumGoroutine  int     `json:"numGoroutine"`
	MemUsed       uint64  `json:"memUsed"`
	MemPercent    float64 `json:"memPercent"`
	Load1         float64 `json:"load1"`
	ProcessRSS    uint64  `json:"processRss"`
	ProcessUptime float64 `json:"processUptime"`
}

// GetSystemInfo collects a snapshot; probes unsupported on the platform are
// left as zero values.
// GetSystemInfo 采集主机概况，不支持的指标保持零值
func GetSystemInfo(startTime time.Time) SystemInfo {
	info := SystemInfo{
		OS:            runtime.GOOS,
		Arch:          runtime.GOARCH,
		NumGoroutine:  runtime.NumGoroutine(),
		ProcessUptime: time.Since(startTime).Seconds(),
	}

	if h, err := host.Info(); err == nil {
		info.Hostname = h.Hostname
		info.Platform = h.Platform + " " + h.PlatformVersion
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.MemUsed = vm.Used
		info.MemPercent = vm.UsedPercent
	}
	if l, err := load.Avg(); err == nil {
		info.Load1 = l.Load1
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if m, err := p.MemoryInfo(); err == nil {
			info.ProcessRSS = m.RSS
		}
	}
	return info
}
