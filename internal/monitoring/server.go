package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"staffboard-backend/internal/models"
	"staffboard-backend/internal/repositories"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Event is one live-feed message pushed to dashboard clients
type Event struct {
	Type      string      `json:"type"` // 'scan' or 'devices'
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// DashboardStats is the point-in-time snapshot served to the ops dashboard
type DashboardStats struct {
	Devices          []*models.BiometricDevice `json:"devices"`
	ConnectedDevices int                       `json:"connected_devices"`
	ScanningDevices  int                       `json:"scanning_devices"`
	AuditLogEntries  int                       `json:"audit_log_entries"`
	CPUPercent       float64                   `json:"cpu_percent"`
	MemoryPercent    float64                   `json:"memory_percent"`
	DiskPercent      float64                   `json:"disk_percent"`
	MemoryUsed       string                    `json:"memory_used"`
	MemoryTotal      string                    `json:"memory_total"`
	DiskUsed         string                    `json:"disk_used"`
	DiskTotal        string                    `json:"disk_total"`
	Uptime           string                    `json:"uptime"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server broadcasts device and scan activity to websocket clients and serves
// a stats endpoint on its own port, away from the main API
type Server struct {
	devices    *repositories.DeviceRepository
	logs       *repositories.BiometricLogRepository
	port       int
	startedAt  time.Time
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan Event
	stopChan   chan struct{}
	httpServer *http.Server
}

func NewServer(devices *repositories.DeviceRepository, logs *repositories.BiometricLogRepository, port int) *Server {
	return &Server{
		devices:   devices,
		logs:      logs,
		port:      port,
		startedAt: time.Now(),
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Event, 64),
		stopChan:  make(chan struct{}),
	}
}

// PublishScan pushes a scan status update to all connected clients.
// Non-blocking: when nobody is draining the channel the event is dropped.
func (ms *Server) PublishScan(status models.ScanStatus) {
	select {
	case ms.broadcast <- Event{Type: "scan", Timestamp: time.Now(), Payload: status}:
	default:
	}
}

// PublishDevices pushes a full device-registry snapshot
func (ms *Server) PublishDevices(ctx context.Context) {
	devices, err := ms.devices.List(ctx)
	if err != nil {
		return
	}
	select {
	case ms.broadcast <- Event{Type: "devices", Timestamp: time.Now(), Payload: devices}:
	default:
	}
}

// Start runs the monitoring server until the listener fails or Stop is called
func (ms *Server) Start() {
	r := mux.NewRouter()

	r.HandleFunc("/api/stats", ms.getStats).Methods("GET")
	r.HandleFunc("/ws", ms.handleWebSocket)

	go ms.handleBroadcast()
	go ms.deviceFeed()

	addr := fmt.Sprintf(":%d", ms.port)
	ms.httpServer = &http.Server{Addr: addr, Handler: r}
	log.Printf("[Monitoring] Live dashboard feed on %s", addr)
	if err := ms.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("[Monitoring] Server stopped: %v", err)
	}
}

// Stop shuts the monitoring server down
func (ms *Server) Stop(ctx context.Context) {
	close(ms.stopChan)
	if ms.httpServer != nil {
		ms.httpServer.Shutdown(ctx)
	}
}

// deviceFeed pushes a registry snapshot to clients on a fixed cadence so
// dashboards stay current even between scan events
func (ms *Server) deviceFeed() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ms.stopChan:
			return
		case <-ticker.C:
			ms.PublishDevices(context.Background())
		}
	}
}

func (ms *Server) getStats(w http.ResponseWriter, r *http.Request) {
	stats := ms.collectStats(r.Context())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (ms *Server) collectStats(ctx context.Context) DashboardStats {
	devices, _ := ms.devices.List(ctx)
	connected, scanning := 0, 0
	for _, dev := range devices {
		switch dev.ConnectionState {
		case models.DeviceConnected:
			connected++
		case models.DeviceScanning:
			scanning++
		}
	}

	cpuPercents, _ := cpu.Percent(time.Second, false)
	cpuPercent := 0.0
	if len(cpuPercents) > 0 {
		cpuPercent = cpuPercents[0]
	}

	memStats, _ := mem.VirtualMemory()
	diskStats, _ := disk.Usage("/")

	stats := DashboardStats{
		Devices:          devices,
		ConnectedDevices: connected,
		ScanningDevices:  scanning,
		AuditLogEntries:  ms.logs.Count(ctx),
		CPUPercent:       cpuPercent,
		Uptime:           formatUptime(int(time.Since(ms.startedAt).Seconds())),
	}
	if memStats != nil {
		stats.MemoryPercent = memStats.UsedPercent
		stats.MemoryUsed = formatBytes(memStats.Used)
		stats.MemoryTotal = formatBytes(memStats.Total)
	}
	if diskStats != nil {
		stats.DiskPercent = diskStats.UsedPercent
		stats.DiskUsed = formatBytes(diskStats.Used)
		stats.DiskTotal = formatBytes(diskStats.Total)
	}
	return stats
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatUptime(seconds int) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func (ms *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("[Monitoring] WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	ms.clientsMux.Lock()
	ms.clients[conn] = true
	ms.clientsMux.Unlock()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			ms.clientsMux.Lock()
			delete(ms.clients, conn)
			ms.clientsMux.Unlock()
			break
		}
	}
}

func (ms *Server) handleBroadcast() {
	for event := range ms.broadcast {
		ms.clientsMux.Lock()
		for client := range ms.clients {
			if err := client.WriteJSON(event); err != nil {
				client.Close()
				delete(ms.clients, client)
			}
		}
		ms.clientsMux.Unlock()
	}
}
