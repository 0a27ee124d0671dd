// Package monitoring turns a running simulation into an inspectable web
// server: component listing, field drill-down, link/queue hang detection,
// progress bars, resource usage and CPU profiling.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"reflect"
	"runtime/pprof"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"

	"github.com/tgsim/tgsim/graph"
	"github.com/tgsim/tgsim/interconnect"
	"github.com/tgsim/tgsim/kernel"
	"github.com/tgsim/tgsim/monitoring/web"
)

// namedLink pairs a SocketManager with the name it should be reported
// under, since SocketManager itself carries no name.
type namedLink struct {
	name string
	link *interconnect.SocketManager
}

// namedPool pairs a Pool with the name it should be reported under.
type namedPool struct {
	name string
	pool *interconnect.Pool
}

// Monitor can turn a simulation into a server and allows external
// monitoring of its processing units, links and payload pools.
type Monitor struct {
	kernel     *kernel.Kernel
	units      []*graph.ProcessingUnit
	links      []namedLink
	pools      []namedPool
	portNumber int

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterKernel registers the kernel driving the simulation.
func (m *Monitor) RegisterKernel(k *kernel.Kernel) {
	m.kernel = k
}

// RegisterProcessingUnit registers a processing unit to be monitored.
func (m *Monitor) RegisterProcessingUnit(u *graph.ProcessingUnit) {
	m.units = append(m.units, u)
}

// RegisterLink registers a socket manager to be monitored under name.
func (m *Monitor) RegisterLink(name string, l *interconnect.SocketManager) {
	m.links = append(m.links, namedLink{name: name, link: l})
}

// RegisterPool registers a payload pool to be monitored under name.
func (m *Monitor) RegisterPool(name string, p *interconnect.Pool) {
	m.pools = append(m.pools, namedPool{name: name, pool: p})
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:    m.kernel.IDGenerator().Generate(),
		Name:  name,
		Total: total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars)-1)
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// StartServer starts the monitor as a web server with a custom port if
// wanted, returning the port it actually bound so a caller that asked
// for a random port (0) can still point a browser at it.
func (m *Monitor) StartServer() int {
	r := mux.NewRouter()

	fs := web.GetAssets()
	fServer := http.FileServer(fs)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.listComponentDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/hangdetector/links", m.hangDetectorLinks)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(fServer)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber >= 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	boundPort := listener.Addr().(*net.TCPAddr).Port

	fmt.Fprintf(
		os.Stderr,
		"Monitoring simulation with http://localhost:%d\n",
		boundPort)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()

	return boundPort
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"now\":%.10f}", m.kernel.Now())
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(m.units)+len(m.links)+len(m.pools))
	for _, u := range m.units {
		names = append(names, u.Name())
	}
	for _, l := range m.links {
		names = append(names, l.name)
	}
	for _, p := range m.pools {
		names = append(names, p.name)
	}

	b, err := json.Marshal(names)
	dieOnErr(err)

	_, err = w.Write(b)
	dieOnErr(err)
}

type unitSnapshot struct {
	Name     string `json:"name"`
	ID       int    `json:"id"`
	CoreUsed bool   `json:"core_used"`
	Waiters  int    `json:"waiters"`
}

type linkSnapshot struct {
	Name     string `json:"name"`
	Used     bool   `json:"used"`
	QueueLen int    `json:"queue_len"`
}

type poolSnapshot struct {
	Name    string `json:"name"`
	NumFree int    `json:"num_free"`
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	for _, u := range m.units {
		if u.Name() == name {
			m.writeJSON(w, unitSnapshot{
				Name:     u.Name(),
				ID:       u.ID(),
				CoreUsed: u.CoreUsed(),
				Waiters:  u.WaiterCount(),
			})
			return
		}
	}

	for _, l := range m.links {
		if l.name == name {
			m.writeJSON(w, linkSnapshot{
				Name:     l.name,
				Used:     l.link.Used(),
				QueueLen: l.link.QueueLen(),
			})
			return
		}
	}

	for _, p := range m.pools {
		if p.name == name {
			m.writeJSON(w, poolSnapshot{Name: p.name, NumFree: p.pool.NumFree()})
			return
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("component not found"))
	dieOnErr(err)
}

func (m *Monitor) writeJSON(w http.ResponseWriter, v any) {
	b, err := json.Marshal(v)
	dieOnErr(err)

	_, err = w.Write(b)
	dieOnErr(err)
}

type fieldReq struct {
	CompName  string `json:"comp_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	err := json.Unmarshal([]byte(jsonString), &req)
	if err != nil {
		dieOnErr(err)
	}

	fields := strings.Split(req.FieldName, ".")

	unit := m.findUnitOr404(w, req.CompName)
	if unit == nil {
		return
	}

	elem, err := m.walkFields(unit, strings.Join(fields, "."))
	dieOnErr(err)

	m.writeJSON(w, elem.Interface())
}

// hangDetectorLinks reports contended links, sorted by how many
// transmissions are waiting for each one, mirroring the buffer
// hang-detector's role for this domain's link-level contention.
func (m *Monitor) hangDetectorLinks(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := m.linksParseParams(r)
	if err != nil {
		w.WriteHeader(400)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	sortedLinks := make([]namedLink, len(m.links))
	copy(sortedLinks, m.links)

	sort.Slice(sortedLinks, func(i, j int) bool {
		return sortedLinks[i].link.QueueLen() > sortedLinks[j].link.QueueLen()
	})

	if offset > len(sortedLinks) {
		offset = len(sortedLinks)
	}
	sortedLinks = sortedLinks[offset:]
	if limit > 0 && limit < len(sortedLinks) {
		sortedLinks = sortedLinks[:limit]
	}

	snapshots := make([]linkSnapshot, len(sortedLinks))
	for i, l := range sortedLinks {
		snapshots[i] = linkSnapshot{
			Name:     l.name,
			Used:     l.link.Used(),
			QueueLen: l.link.QueueLen(),
		}
	}

	m.writeJSON(w, snapshots)
}

func (*Monitor) linksParseParams(r *http.Request) (limit, offset int, err error) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		limitStr = "0"
	}
	limit, err = strconv.Atoi(limitStr)
	if err != nil {
		return 0, 0, err
	}

	offsetStr := r.URL.Query().Get("offset")
	if offsetStr == "" {
		offsetStr = "0"
	}
	offset, err = strconv.Atoi(offsetStr)
	if err != nil {
		return limit, 0, err
	}

	if limit < 0 || offset < 0 {
		return 0, 0, errors.New("limit and offset must not be negative")
	}

	return limit, offset, nil
}

type fieldFormatError struct{}

func (fieldFormatError) Error() string {
	return "fieldFormatError"
}

func (m *Monitor) walkFields(
	comp interface{},
	fields string,
) (reflect.Value, error) {
	elem := reflect.ValueOf(comp)

	fieldNames := strings.Split(fields, ".")

	for len(fieldNames) > 0 {
		switch elem.Kind() {
		case reflect.Ptr, reflect.Interface:
			elem = elem.Elem()
		case reflect.Struct:
			elem = elem.FieldByName(fieldNames[0])
			fieldNames = fieldNames[1:]
		case reflect.Slice:
			index, err := strconv.Atoi(fieldNames[0])
			if err != nil {
				return elem, fieldFormatError{}
			}

			elem = elem.Index(index)
			fieldNames = fieldNames[1:]
		default:
			panic(fmt.Sprintf("kind %d not supported", elem.Kind()))
		}
	}

	if elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}

	return elem, nil
}

func (m *Monitor) findUnitOr404(
	w http.ResponseWriter,
	name string,
) *graph.ProcessingUnit {
	var unit *graph.ProcessingUnit
	for _, u := range m.units {
		if u.Name() == name {
			unit = u
		}
	}

	if unit == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("component not found"))
		dieOnErr(err)
	}

	return unit
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.writeJSON(w, m.progressBars)
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

	memorySize, err := proc.MemoryInfo()
	dieOnErr(err)

	m.writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	m.writeJSON(w, prof)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
