package benchmark

import (
	"context"
	"fmt"
	"runtime"
	"testing"

	"github.com/yndnr/minikv-go/internal/server/kvserver"
	"github.com/yndnr/minikv-go/internal/storage"
	"github.com/yndnr/minikv-go/internal/storage/memory"
	"github.com/yndnr/minikv-go/internal/telemetry/logger"
)

// KeyCounts defines the keyspace sizes for benchmarking.
var KeyCounts = []int{1000, 10000, 100000}

// ShardCounts compares the single critical section with sharding.
var ShardCounts = []int{1, 16, 64}

// ValueSizes defines the payload sizes for benchmarking.
var ValueSizes = []int{16, 256, 4096}

func benchKey(i int) []byte {
	return []byte(fmt.Sprintf("key:%08d", i))
}

func benchValue(size int) []byte {
	v := make([]byte, size)
	for i := range v {
		v[i] = byte('a' + i%26)
	}
	return v
}

// prefillStore writes count keys with values of size bytes.
func prefillStore(kv storage.KV, count, size int) {
	value := benchValue(size)
	for i := 0; i < count; i++ {
		kv.Set(benchKey(i), value)
	}
}

// startServer starts a loopback server over a fresh store.
func startServer(b *testing.B, shards int) *kvserver.Server {
	b.Helper()

	cfg := kvserver.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	srv := kvserver.New(cfg, memory.New(memory.WithShardCount(shards)),
		kvserver.WithLogger(logger.Discard()))
	if err := srv.Start(context.Background()); err != nil {
		b.Fatalf("Start() error = %v", err)
	}
	b.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

// reportMemory reports heap usage after a forced GC.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithKeyCounts runs benchFn once per keyspace size.
func runWithKeyCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("keys_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
