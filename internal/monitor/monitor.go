// Package monitor reports host and process metrics for the server monitor
// endpoint.
package monitor

import (
	"context"
	"fmt"
	"net"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"adminapi/internal/logging"
	"adminapi/internal/timeutil"
)

type CPUInfo struct {
	Usage       float64 `json:"usage"`
	MaxFreq     float64 `json:"max_freq"`
	MinFreq     float64 `json:"min_freq"`
	CurrentFreq float64 `json:"current_freq"`
	LogicalNum  int     `json:"logical_num"`
	PhysicalNum int     `json:"physical_num"`
}

// MemInfo sizes are in GB.
type MemInfo struct {
	Total float64 `json:"total"`
	Used  float64 `json:"used"`
	Free  float64 `json:"free"`
	Usage float64 `json:"usage"`
}

type SysInfo struct {
	Name string `json:"name"`
	IP   string `json:"ip"`
	OS   string `json:"os"`
	Arch string `json:"arch"`
}

type DiskInfo struct {
	Dir    string `json:"dir"`
	Type   string `json:"type"`
	Device string `json:"device"`
	Total  string `json:"total"`
	Free   string `json:"free"`
	Used   string `json:"used"`
	Usage  string `json:"usage"`
}

type ServiceInfo struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Home     string `json:"home"`
	CPUUsage string `json:"cpu_usage"`
	MemVMS   string `json:"mem_vms"`
	MemRSS   string `json:"mem_rss"`
	MemFree  string `json:"mem_free"`
	Startup  string `json:"startup"`
	Elapsed  string `json:"elapsed"`
}

type ServerInfo struct {
	CPU     CPUInfo     `json:"cpu"`
	Mem     MemInfo     `json:"mem"`
	Sys     SysInfo     `json:"sys"`
	Disk    []DiskInfo  `json:"disk"`
	Service ServiceInfo `json:"service"`
}

// Collector gathers ServerInfo. The zero value samples CPU usage over one second.
type Collector struct {
	// Interval is how long CPU usage is sampled for.
	Interval time.Duration
	TZ       *timeutil.TimeZone
}

func NewCollector() *Collector {
	return &Collector{Interval: time.Second}
}

func (c *Collector) tz() *timeutil.TimeZone {
	if c.TZ != nil {
		return c.TZ
	}
	return timeutil.Default
}

// Collect reads every section. Disk partitions that cannot be read are skipped.
func (c *Collector) Collect(ctx context.Context) (*ServerInfo, error) {
	cpuInfo, err := c.CPU(ctx)
	if err != nil {
		return nil, err
	}
	memInfo, err := Mem(ctx)
	if err != nil {
		return nil, err
	}
	sysInfo, err := Sys(ctx)
	if err != nil {
		return nil, err
	}
	disks, err := Disks(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := c.Service(ctx)
	if err != nil {
		return nil, err
	}
	return &ServerInfo{CPU: *cpuInfo, Mem: *memInfo, Sys: *sysInfo, Disk: disks, Service: *svc}, nil
}

func (c *Collector) CPU(ctx context.Context) (*CPUInfo, error) {
	out := &CPUInfo{}
	usage, err := cpu.PercentWithContext(ctx, c.Interval, false)
	if err != nil {
		return nil, fmt.Errorf("cpu percent: %w", err)
	}
	if len(usage) > 0 {
		out.Usage = round2(usage[0])
	}

	// Frequency is unavailable on some platforms; report zeros there.
	if infos, err := cpu.InfoWithContext(ctx); err == nil {
		for i, info := range infos {
			if i == 0 || info.Mhz > out.MaxFreq {
				out.MaxFreq = info.Mhz
			}
			if i == 0 || info.Mhz < out.MinFreq {
				out.MinFreq = info.Mhz
			}
		}
		if len(infos) > 0 {
			out.CurrentFreq = round2(infos[0].Mhz)
		}
		out.MaxFreq, out.MinFreq = round2(out.MaxFreq), round2(out.MinFreq)
	}

	if out.LogicalNum, err = cpu.CountsWithContext(ctx, true); err != nil {
		return nil, fmt.Errorf("cpu counts: %w", err)
	}
	if out.PhysicalNum, err = cpu.CountsWithContext(ctx, false); err != nil {
		return nil, fmt.Errorf("cpu counts: %w", err)
	}
	return out, nil
}

func Mem(ctx context.Context) (*MemInfo, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("virtual memory: %w", err)
	}
	return &MemInfo{
		Total: gigabytes(vm.Total),
		Used:  gigabytes(vm.Used),
		Free:  gigabytes(vm.Available),
		Usage: round2(vm.UsedPercent),
	}, nil
}

func Sys(ctx context.Context) (*SysInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("host info: %w", err)
	}
	return &SysInfo{
		Name: info.Hostname,
		IP:   outboundIP(),
		OS:   info.OS,
		Arch: runtime.GOARCH,
	}, nil
}

// outboundIP returns the local address used for outgoing traffic. No packet
// is sent; dialing UDP only picks a route.
func outboundIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "127.0.0.1"
}

func Disks(ctx context.Context) ([]DiskInfo, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("disk partitions: %w", err)
	}
	out := make([]DiskInfo, 0, len(parts))
	for _, p := range parts {
		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			logging.L.Debug("skipping unreadable partition", "component", "monitor", "mount", p.Mountpoint, "err", err)
			continue
		}
		out = append(out, DiskInfo{
			Dir:    p.Mountpoint,
			Type:   p.Fstype,
			Device: p.Device,
			Total:  FormatBytes(float64(usage.Total)),
			Free:   FormatBytes(float64(usage.Free)),
			Used:   FormatBytes(float64(usage.Used)),
			Usage:  fmt.Sprintf("%.2f %%", usage.UsedPercent),
		})
	}
	return out, nil
}

// Service describes the running server process.
func (c *Collector) Service(ctx context.Context) (*ServiceInfo, error) {
	p, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}
	memInfo, err := p.MemoryInfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("process memory: %w", err)
	}
	cpuPercent, err := p.PercentWithContext(ctx, c.Interval)
	if err != nil {
		return nil, fmt.Errorf("process cpu: %w", err)
	}
	createdMs, err := p.CreateTimeWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("process start time: %w", err)
	}

	tz := c.tz()
	started := time.UnixMilli(createdMs)
	home, _ := os.Executable()
	return &ServiceInfo{
		Name:     "Go",
		Version:  runtime.Version(),
		Home:     home,
		CPUUsage: fmt.Sprintf("%.2f %%", cpuPercent),
		MemVMS:   FormatBytes(float64(memInfo.VMS)),
		MemRSS:   FormatBytes(float64(memInfo.RSS)),
		MemFree:  FormatBytes(float64(memInfo.VMS) - float64(memInfo.RSS)),
		Startup:  tz.Format(started),
		Elapsed:  FormatSeconds(int64(tz.Now().Sub(started).Round(time.Second).Seconds())),
	}, nil
}
