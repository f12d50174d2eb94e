// Package monitor turns a running simulation into a small web server for
// external observation and control. It serves scheduler snapshots and
// pause/continue/stop controls as a JSON API, Prometheus metrics under
// /metrics, and the standard profiling endpoints under /debug/pprof/.
package monitor

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"

	// Enable profiling endpoints.
	_ "net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"

	"github.com/deltav-sim/deltav/kernel"
)

// Monitor serves the state of one scheduler over HTTP.
type Monitor struct {
	sched       *kernel.Scheduler
	portNumber  int
	openBrowser bool
}

// NewMonitor creates a monitor for the given scheduler.
func NewMonitor(s *kernel.Scheduler) *Monitor {
	return &Monitor{sched: s}
}

// WithPortNumber sets the port the server listens on. Ports below 1000 are
// rejected and replaced with a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is not allowed for the monitoring server. "+
				"Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes StartServer open the dashboard in the default browser.
func (m *Monitor) WithBrowser() *Monitor {
	m.openBrowser = true

	return m
}

// Router builds the monitor's route table.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/processes", m.listProcesses)
	r.HandleFunc("/api/pause", m.pause)
	r.HandleFunc("/api/continue", m.continueRun)
	r.HandleFunc("/api/stop", m.stop)
	r.HandleFunc("/api/run", m.run)
	r.HandleFunc("/api/resource", m.listResources)
	r.Handle("/metrics", m.metricsHandler())
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return r
}

// StartServer starts serving in the background and returns the chosen port.
func (m *Monitor) StartServer() int {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	port := listener.Addr().(*net.TCPAddr).Port
	url := fmt.Sprintf("http://localhost:%d", port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	if m.openBrowser {
		if err := browser.OpenURL(url); err != nil {
			fmt.Fprintf(os.Stderr,
				"Cannot open browser: %s\n", err)
		}
	}

	go func() {
		dieOnErr(http.Serve(listener, m.Router()))
	}()

	return port
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	snap := m.sched.TakeSnapshot()

	writeJSON(w, map[string]any{
		"time_high": snap.TimeHigh,
		"time_low":  snap.TimeLow,
		"seconds":   snap.Seconds,
		"delta":     snap.Delta,
		"phase":     snap.Phase,
	})
}

func (m *Monitor) listProcesses(w http.ResponseWriter, _ *http.Request) {
	snap := m.sched.TakeSnapshot()

	procs := snap.Processes
	if procs == nil {
		procs = []kernel.ProcessInfo{}
	}

	writeJSON(w, procs)
}

func (m *Monitor) pause(w http.ResponseWriter, _ *http.Request) {
	m.sched.Pause()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) continueRun(w http.ResponseWriter, _ *http.Request) {
	m.sched.Continue()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) stop(w http.ResponseWriter, _ *http.Request) {
	m.sched.Stop()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) run(w http.ResponseWriter, _ *http.Request) {
	go func() {
		if err := m.sched.Run(); err != nil {
			log.Printf("simulation failed: %s", err)
		}
	}()

	w.WriteHeader(http.StatusAccepted)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memInfo.RSS,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	bytes, err := json.Marshal(v)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
