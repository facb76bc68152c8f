package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/metrics"
)

type fakeReporter struct {
	name  string
	panic bool
}

func (f *fakeReporter) ModuleName() string { return f.name }

func (f *fakeReporter) CollectMemoryStats() metrics.ModuleMemoryStats {
	if f.panic {
		panic("boom")
	}
	return metrics.ModuleMemoryStats{Module: f.name, Objects: 1}
}

func TestCollectAllModuleStats_SkipsPanickingReporter(t *testing.T) {
	ClearAllMemoryReporters()
	defer ClearAllMemoryReporters()

	RegisterMemoryReporter(&fakeReporter{name: "registry"})
	RegisterMemoryReporter(&fakeReporter{name: "broken", panic: true})
	RegisterMemoryReporter(nil)
	RegisterMemoryReporter(&fakeReporter{name: "nftstorage"})

	assert.Equal(t, 3, GetRegisteredReportersCount(), "nil 上报器不应被注册")

	stats := CollectAllModuleStats()
	require.Len(t, stats, 2)
	assert.Equal(t, "registry", stats[0].Module)
	assert.Equal(t, "nftstorage", stats[1].Module)
}
