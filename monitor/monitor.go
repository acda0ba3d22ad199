// Package monitor turns a running SMC simulation into a small web server
// that can be paused, resumed, and inspected from a browser.
package monitor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	// Enables profiling handlers registered on the default mux.
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/smc/sim"
)

// Monitor exposes a running simulation's engine and components over HTTP.
type Monitor struct {
	engine     sim.Engine
	components []sim.Component
	portNumber int

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	txLock     sync.Mutex
	txCounts   map[string]uint64
	txChargeNs map[string]float64
}

// New creates an unstarted Monitor.
func New() *Monitor {
	return &Monitor{
		txCounts:   make(map[string]uint64),
		txChargeNs: make(map[string]float64),
	}
}

// WithPortNumber sets the port the monitor listens on. A value below 1000
// is rejected in favor of a randomly assigned port, since low ports are
// reserved on most systems.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is not allowed for the monitoring server, "+
				"using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine records the engine driving the simulation.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
}

// RegisterComponent makes a component inspectable by name.
func (m *Monitor) RegisterComponent(c sim.Component) {
	m.components = append(m.components, c)
}

// CreateProgressBar creates and registers a new ProgressBar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:    sim.GetIDGenerator().Generate(),
		Name:  name,
		Total: total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()
	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a finished bar from the dashboard.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// TransactionHook returns a callback matching smc.Comp's
// OnTransactionComplete signature that tallies completions by kind for the
// /api/transactions endpoint.
func (m *Monitor) TransactionHook() func(kind string, address uint64, chargeTime sim.VTimeInSec, levelsWalked int) {
	return func(kind string, _ uint64, chargeTime sim.VTimeInSec, _ int) {
		m.txLock.Lock()
		defer m.txLock.Unlock()

		m.txCounts[kind]++
		m.txChargeNs[kind] += float64(chargeTime)
	}
}

// StartServer starts the dashboard as a background HTTP server.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()
	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/run", m.run)
	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.listComponentDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.HandleFunc("/api/transactions", m.listTransactions)
	r.HandleFunc("/", m.index)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber >= 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	fmt.Fprintf(os.Stderr,
		"Monitoring simulation at http://localhost:%d\n",
		listener.Addr().(*net.TCPAddr).Port)

	go func() {
		err := http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

func (m *Monitor) index(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "<html><body><h1>Secure Memory Controller monitor</h1>"+
		"<p>See /api/list_components, /api/progress, /api/transactions, /api/resource.</p>"+
		"</body></html>")
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.engine.CurrentTime()
	fmt.Fprintf(w, "{\"now\":%.10f}", now)
}

func (m *Monitor) run(_ http.ResponseWriter, _ *http.Request) {
	go func() {
		err := m.engine.Run()
		if err != nil {
			panic(err)
		}
	}()
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")

	for i, c := range m.components {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "%q", c.Name())
	}

	fmt.Fprint(w, "]")
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	component := m.findComponentOr404(w, name)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)

	dieOnErr(serializer.Serialize(w))
}

type fieldReq struct {
	CompName  string `json:"comp_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	if err := json.Unmarshal([]byte(jsonString), &req); err != nil {
		dieOnErr(err)
	}

	component := m.findComponentOr404(w, req.CompName)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)

	dieOnErr(serializer.SetEntryPoint(strings.Split(req.FieldName, ".")))
	dieOnErr(serializer.Serialize(w))
}

func (m *Monitor) findComponentOr404(w http.ResponseWriter, name string) sim.Component {
	var component sim.Component

	for _, c := range m.components {
		if c.Name() == name {
			component = c
		}
	}

	if component == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("component not found"))
		dieOnErr(err)
	}

	return component
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]*ProgressBar, len(m.progressBars))
	copy(bars, m.progressBars)
	m.progressBarsLock.Unlock()

	b, err := json.Marshal(bars)
	dieOnErr(err)

	_, err = w.Write(b)
	dieOnErr(err)
}

type transactionStats struct {
	Kind           string  `json:"kind"`
	Count          uint64  `json:"count"`
	MeanChargeTime float64 `json:"mean_charge_time"`
}

func (m *Monitor) listTransactions(w http.ResponseWriter, _ *http.Request) {
	m.txLock.Lock()
	stats := make([]transactionStats, 0, len(m.txCounts))

	for kind, count := range m.txCounts {
		mean := 0.0
		if count > 0 {
			mean = m.txChargeNs[kind] / float64(count)
		}

		stats = append(stats, transactionStats{Kind: kind, Count: count, MeanChargeTime: mean})
	}
	m.txLock.Unlock()

	b, err := json.Marshal(stats)
	dieOnErr(err)

	_, err = w.Write(b)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()

	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{CPUPercent: cpuPercent, MemorySize: memInfo.RSS}

	b, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(b)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	dieOnErr(pprof.StartCPUProfile(buf))
	time.Sleep(time.Second)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	b, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(b)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
