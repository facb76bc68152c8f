package metrics

import (
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	metricsiface "github.com/unicus/v1/pkg/interfaces/infrastructure/metrics"
	"github.com/unicus/v1/pkg/types"
)

var _ metricsiface.OperationRecorder = (*RegistryMetrics)(nil)

// coded 带业务错误码的错误（注册表、上传服务的哨兵错误都实现了它）
type coded interface {
	ErrorCode() string
}

// RegistryMetrics 注册表与上传服务的业务指标
type RegistryMetrics struct {
	opsTotal     *prometheus.CounterVec
	opDuration   *prometheus.HistogramVec
	eventsTotal  *prometheus.CounterVec
	totalSupply  prometheus.Gauge
	uploadsTotal prometheus.Counter
	uploadBytes  prometheus.Counter
}

// NewRegistryMetrics 在给定的注册器上创建业务指标
func NewRegistryMetrics(reg prometheus.Registerer) *RegistryMetrics {
	factory := promauto.With(reg)
	return &RegistryMetrics{
		opsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "unicus",
				Subsystem: "registry",
				Name:      "operations_total",
				Help:      "Total number of registry and upload operations by result",
			},
			[]string{"op", "result"},
		),
		opDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "unicus",
				Subsystem: "registry",
				Name:      "operation_duration_seconds",
				Help:      "Registry operation duration in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"op"},
		),
		eventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "unicus",
				Subsystem: "registry",
				Name:      "events_total",
				Help:      "Registry events published after commit, by kind",
			},
			[]string{"kind"},
		),
		totalSupply: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "unicus",
			Subsystem: "registry",
			Name:      "total_supply",
			Help:      "Number of tokens minted so far",
		}),
		uploadsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "unicus",
			Subsystem: "nftstorage",
			Name:      "uploads_total",
			Help:      "Number of stored metadata uploads",
		}),
		uploadBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "unicus",
			Subsystem: "nftstorage",
			Name:      "upload_image_bytes_total",
			Help:      "Total image bytes stored by uploads",
		}),
	}
}

// ObserveOperation 实现 OperationRecorder 接口
func (m *RegistryMetrics) ObserveOperation(op string, err error, duration time.Duration) {
	m.opsTotal.WithLabelValues(op, resultLabel(err)).Inc()
	m.opDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// resultLabel 把错误归类为有限的标签值
func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var c coded
	if errors.As(err, &c) {
		return strings.ToLower(c.ErrorCode())
	}
	return "error"
}

// OnRegistryEvent 事件总线处理器：按类型计数并跟踪总供应量
func (m *RegistryMetrics) OnRegistryEvent(ev types.RegistryEvent) {
	m.eventsTotal.WithLabelValues(string(ev.Kind)).Inc()
	// 铸造事件的 TokenID 即为当时的总供应量
	if ev.Kind == types.EventTransfer && ev.From == (common.Address{}) {
		m.totalSupply.Set(float64(ev.TokenID))
	}
}

// OnUploaded 事件总线处理器：上传完成计数
func (m *RegistryMetrics) OnUploaded(res *types.UploadResult) {
	if res == nil {
		return
	}
	m.uploadsTotal.Inc()
	m.uploadBytes.Add(float64(res.ImageSize))
}

// SetTotalSupply 启动时用账本中的值初始化总供应量
func (m *RegistryMetrics) SetTotalSupply(supply uint64) {
	m.totalSupply.Set(float64(supply))
}
