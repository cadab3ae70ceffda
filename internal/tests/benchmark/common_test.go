package benchmark

import (
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/printlink-go/internal/core/domain"
)

// ConnectionCounts defines registry sizes for benchmarking.
var ConnectionCounts = []int{100, 1000, 10000, 50000}

// PayloadSizes defines raw payload sizes for send benchmarks.
var PayloadSizes = []int{64, 4 << 10, 64 << 10}

// startSink listens on loopback and discards every byte it receives,
// standing in for a raw-socket printer.
func startSink(b *testing.B) (host string, port int) {
	b.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		b.Fatalf("listen: %v", err)
	}

	var wg sync.WaitGroup
	b.Cleanup(func() {
		ln.Close()
		wg.Wait()
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				io.Copy(io.Discard, conn)
				conn.Close()
			}()
		}
	}()

	h, p, _ := net.SplitHostPort(ln.Addr().String())
	port, _ = strconv.Atoi(p)
	return h, port
}

// nopSocket is an in-memory domain.Socket for registry benchmarks.
type nopSocket struct {
	mu     sync.Mutex
	closed bool
}

func (s *nopSocket) Send(p []byte) (int, error) { return len(p), nil }
func (s *nopSocket) CloseWrite() error          { return nil }
func (s *nopSocket) CloseRead() error           { return nil }
func (s *nopSocket) RemoteAddr() net.Addr       { return &net.TCPAddr{IP: net.IPv4(10, 0, 0, 5), Port: 9100} }

func (s *nopSocket) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *nopSocket) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// newConnection builds a registered-ready connection without dialing.
func newConnection(i int) *domain.Connection {
	return domain.NewConnection(domain.NewConnectionID(), fmt.Sprintf("10.0.%d.%d", (i/250)%250, i%250+1), 9100, 5*time.Second, &nopSocket{})
}

// payload returns n bytes of ESC/POS-looking data, base64 encoded.
func payload(n int) string {
	raw := make([]byte, n)
	for i := range raw {
		raw[i] = byte(0x20 + i%0x5f)
	}
	copy(raw, "\x1b\x40")
	return base64.StdEncoding.EncodeToString(raw)
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithCounts runs benchFn once per registry size.
func runWithCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("connections_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
