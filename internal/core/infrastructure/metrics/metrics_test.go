package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricsiface "github.com/unicus/v1/pkg/interfaces/infrastructure/metrics"
	"github.com/unicus/v1/pkg/types"
	metricsutil "github.com/unicus/v1/pkg/utils/metrics"
)

type codedErr struct{ code string }

func (e codedErr) Error() string     { return e.code }
func (e codedErr) ErrorCode() string { return e.code }

type fixedReporter struct{ stats metricsiface.ModuleMemoryStats }

func (r fixedReporter) ModuleName() string                                  { return r.stats.Module }
func (r fixedReporter) CollectMemoryStats() metricsiface.ModuleMemoryStats { return r.stats }

// TestObserveOperation_ResultLabels 测试结果标签归类
func TestObserveOperation_ResultLabels(t *testing.T) {
	// Arrange
	m := NewRegistryMetrics(prometheus.NewRegistry())

	// Act
	m.ObserveOperation("mint", nil, time.Millisecond)
	m.ObserveOperation("mint", codedErr{code: "REGISTRY_UNAUTHORIZED"}, time.Millisecond)
	m.ObserveOperation("mint", errors.New("disk full"), time.Millisecond)

	// Assert
	assert.Equal(t, 1.0, testutil.ToFloat64(m.opsTotal.WithLabelValues("mint", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.opsTotal.WithLabelValues("mint", "registry_unauthorized")), "业务错误码应作为标签")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.opsTotal.WithLabelValues("mint", "error")), "未知错误归为error")
}

// TestOnRegistryEvent_TracksSupply 测试事件计数与总供应量
func TestOnRegistryEvent_TracksSupply(t *testing.T) {
	m := NewRegistryMetrics(prometheus.NewRegistry())
	minter := common.HexToAddress("0x1")

	m.OnRegistryEvent(types.RegistryEvent{Kind: types.EventTransfer, To: minter, TokenID: 1})
	m.OnRegistryEvent(types.RegistryEvent{Kind: types.EventTransfer, To: minter, TokenID: 2})
	m.OnRegistryEvent(types.RegistryEvent{Kind: types.EventTokenClaimed, From: minter, TokenID: 1})
	m.OnRegistryEvent(types.RegistryEvent{Kind: types.EventTransfer, From: minter, To: common.HexToAddress("0x2"), TokenID: 1})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.totalSupply), "普通转移不应改变总供应量")
	assert.Equal(t, 3.0, testutil.ToFloat64(m.eventsTotal.WithLabelValues(string(types.EventTransfer))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsTotal.WithLabelValues(string(types.EventTokenClaimed))))

	m.OnUploaded(&types.UploadResult{ImageSize: 128})
	m.OnUploaded(nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploadsTotal))
	assert.Equal(t, 128.0, testutil.ToFloat64(m.uploadBytes))
}

// TestMemoryDoctor_SampleOnce 测试模块统计导出与历史窗口
func TestMemoryDoctor_SampleOnce(t *testing.T) {
	metricsutil.ClearAllMemoryReporters()
	defer metricsutil.ClearAllMemoryReporters()
	metricsutil.RegisterMemoryReporter(fixedReporter{stats: metricsiface.ModuleMemoryStats{
		Module: "registry", Objects: 7, ApproxBytes: 1024, CacheItems: 3,
	}})

	doctor := NewMemoryDoctor(MemoryDoctorConfig{WindowSize: 2}, prometheus.NewRegistry(), nil)
	for i := 0; i < 3; i++ {
		doctor.SampleOnce()
	}

	require.Len(t, doctor.GetHistory(), 2, "历史应保持窗口大小")
	assert.Equal(t, 7.0, testutil.ToFloat64(doctor.moduleObjects.WithLabelValues("registry")))
	assert.Equal(t, 1024.0, testutil.ToFloat64(doctor.moduleBytes.WithLabelValues("registry")))
	assert.Equal(t, 3.0, testutil.ToFloat64(doctor.moduleCache.WithLabelValues("registry")))
}
