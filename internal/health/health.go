package health

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"sadhna-backend/internal/cache"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// ClientCounter reports open realtime subscriptions.
type ClientCounter interface {
	ClientCount() int
}

type HealthChecker struct {
	db        Pinger
	realtime  ClientCounter
	diskPath  string
	startedAt time.Time
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
	Redis    string         `json:"redis"`
}

type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
	TotalConns   int32  `json:"total_conns,omitempty"`
	IdleConns    int32  `json:"idle_conns,omitempty"`
}

type SystemHealth struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsed    string  `json:"memory_used"`
	MemoryTotal   string  `json:"memory_total"`
	DiskPercent   float64 `json:"disk_percent"`
	DiskUsed      string  `json:"disk_used"`
	DiskTotal     string  `json:"disk_total"`
	Goroutines    int     `json:"goroutines"`
}

type DetailedStatus struct {
	HealthStatus
	Uptime          string       `json:"uptime"`
	RealtimeClients int          `json:"realtime_clients"`
	System          SystemHealth `json:"system"`
}

func NewHealthChecker(db Pinger, realtime ClientCounter, diskPath string) *HealthChecker {
	if diskPath == "" {
		diskPath = "/"
	}
	return &HealthChecker{db: db, realtime: realtime, diskPath: diskPath, startedAt: time.Now()}
}

func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	dbHealth := h.checkDatabase(ctx)

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	}

	redis := "disabled"
	if cache.IsHealthy() {
		redis = "healthy"
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
		Redis:    redis,
	}
}

// CheckDetailed adds host and process figures to the basic check.
func (h *HealthChecker) CheckDetailed(ctx context.Context) DetailedStatus {
	d := DetailedStatus{
		HealthStatus: h.CheckBasic(ctx),
		Uptime:       time.Since(h.startedAt).Round(time.Second).String(),
		System:       systemHealth(h.diskPath),
	}
	if h.realtime != nil {
		d.RealtimeClients = h.realtime.ClientCount()
	}
	return d
}

func (h *HealthChecker) checkDatabase(ctx context.Context) DatabaseHealth {
	if h.db == nil {
		return DatabaseHealth{Status: "unhealthy"}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	dh := DatabaseHealth{Status: "healthy", ResponseTime: time.Since(start).Milliseconds()}
	if err != nil {
		dh.Status = "unhealthy"
	}
	if pool, ok := h.db.(*pgxpool.Pool); ok {
		stat := pool.Stat()
		dh.TotalConns = stat.TotalConns()
		dh.IdleConns = stat.IdleConns()
	}
	return dh
}

func systemHealth(diskPath string) SystemHealth {
	s := SystemHealth{Goroutines: runtime.NumGoroutine()}

	// zero interval compares against the previous call instead of sleeping
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		s.CPUPercent = percents[0]
	}
	if m, err := mem.VirtualMemory(); err == nil {
		s.MemoryPercent = m.UsedPercent
		s.MemoryUsed = formatBytes(m.Used)
		s.MemoryTotal = formatBytes(m.Total)
	}
	if d, err := disk.Usage(diskPath); err == nil {
		s.DiskPercent = d.UsedPercent
		s.DiskUsed = formatBytes(d.Used)
		s.DiskTotal = formatBytes(d.Total)
	}
	return s
}

func formatBytes(bytes uint64) string {
	gb := float64(bytes) / (1024 * 1024 * 1024)
	if gb < 1 {
		mb := float64(bytes) / (1024 * 1024)
		return fmt.Sprintf("%.1f MB", mb)
	}
	return fmt.Sprintf("%.1f GB", gb)
}
