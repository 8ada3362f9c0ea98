package observability

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// flushThreshold is how many datums are buffered before an automatic
// flush. CloudWatch accepts at most 1000 datums per PutMetricData call;
// we stay far below that to keep payloads small.
const flushThreshold = 20

// Metrics buffers metric datums and ships them to CloudWatch.
// Recording never blocks the caller on network IO; datums are
// flushed when the buffer fills or Flush is called.
type Metrics struct {
	namespace string
	client    *cloudwatch.Client
	logger    *zap.Logger

	mu     sync.Mutex
	datums []types.MetricDatum
}

// NewMetrics creates a CloudWatch-backed metrics recorder
func NewMetrics(namespace string, client *cloudwatch.Client, logger *zap.Logger) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
		datums:    make([]types.MetricDatum, 0, flushThreshold),
	}
}

// Count increments a named counter
func (m *Metrics) Count(ctx context.Context, name string, value float64) {
	m.record(ctx, types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       types.StandardUnitCount,
		Timestamp:  aws.Time(time.Now()),
	})
}

// Duration records how long a named operation took
func (m *Metrics) Duration(ctx context.Context, name string, d time.Duration) {
	m.record(ctx, types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(float64(d.Milliseconds())),
		Unit:       types.StandardUnitMilliseconds,
		Timestamp:  aws.Time(time.Now()),
	})
}

// Flush ships any buffered datums to CloudWatch
func (m *Metrics) Flush(ctx context.Context) {
	m.mu.Lock()
	datums := m.datums
	m.datums = make([]types.MetricDatum, 0, flushThreshold)
	m.mu.Unlock()

	m.publish(ctx, datums)
}

func (m *Metrics) record(ctx context.Context, datum types.MetricDatum) {
	m.mu.Lock()
	m.datums = append(m.datums, datum)
	var full []types.MetricDatum
	if len(m.datums) >= flushThreshold {
		full = m.datums
		m.datums = make([]types.MetricDatum, 0, flushThreshold)
	}
	m.mu.Unlock()

	if full != nil {
		m.publish(ctx, full)
	}
}

func (m *Metrics) publish(ctx context.Context, datums []types.MetricDatum) {
	if len(datums) == 0 || m.client == nil {
		return
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: datums,
	})
	if err != nil {
		// Metrics are best effort; losing a batch must not fail the request
		m.logger.Warn("Failed to publish metrics",
			zap.Error(err),
			zap.Int("datums", len(datums)),
		)
	}
}
