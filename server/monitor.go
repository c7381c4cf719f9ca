package server

import (
	"fmt"
	"io"
	"net/http"
	"runtime"
	"runtime/pprof"
)

// runtimeMonitor writes runtime information about the server.
type runtimeMonitor struct {
	workers int
	live    Live
}

// ServeHTTP writes runtime information to the response.
func (m runtimeMonitor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ms := new(runtime.MemStats)
	runtime.ReadMemStats(ms)
	p := pprof.Lookup("goroutine")
	w.Header().Set(HeaderContentType, "text/plain; charset=utf-8")
	writeMemoryStats(w, ms)
	fmt.Fprintln(w)
	m.writeGoroutineExpectations(w)
	fmt.Fprintln(w)
	writeGoroutineStackTraces(w, p)
}

// writeMemoryStats writes the memory runtime statistics of the server.
func writeMemoryStats(w io.Writer, m *runtime.MemStats) {
	fmt.Fprintln(w, "--- Memory Stats ---")
	fmt.Fprintln(w, "Alloc (bytes on heap)", m.Alloc)
	fmt.Fprintln(w, "TotalAlloc (total heap size)", m.TotalAlloc)
	fmt.Fprintln(w, "Sys (bytes used to run server)", m.Sys)
	fmt.Fprintln(w, "Live object count (Mallocs - Frees)", m.Mallocs-m.Frees)
}

// writeGoroutineExpectations writes a message about the expected goroutines.
func (m runtimeMonitor) writeGoroutineExpectations(w io.Writer) {
	subscribers := m.live.SubscriberCount()
	n := 4 + m.workers + 2*subscribers
	fmt.Fprintln(w, "--- Goroutine Expectations ---")
	fmt.Fprintf(w, "%d goroutines are expected on the server.\n", n)
	fmt.Fprintln(w, "* a goroutine to run the main procedure")
	fmt.Fprintln(w, "* a goroutine listening for interrupt/termination signals so the server can stop gracefully")
	fmt.Fprintln(w, "* a goroutine to run the http server")
	fmt.Fprintln(w, "* a goroutine to write profiling information about goroutines")
	for i := 0; i < m.workers; i++ {
		fmt.Fprintf(w, "* a goroutine to run background worker %d\n", i+1)
	}
	for i := 0; i < subscribers; i++ {
		fmt.Fprintf(w, "* two goroutines to read and write events for live subscriber %d\n", i+1)
	}
	fmt.Fprintln(w, "Database drivers and event clients may add goroutines to manage their connections.")
}

// writeGoroutineStackTraces writes the goroutine runtime profile's stack traces.
func writeGoroutineStackTraces(w io.Writer, p *pprof.Profile) {
	fmt.Fprintln(w, "--- Goroutine Stack Traces ---")
	p.WriteTo(w, 1)
}
