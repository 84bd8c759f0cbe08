package sender

import (
	"fmt"
	"time"
)

// Metrics 单次传输统计
type Metrics struct {
	TotalBytes    int           // 负载总字节数
	TotalSegments int           // 数据段总数
	SegmentsSent  int64         // 实际发出的数据段数（含重传）
	Retransmits   int64         // 重传总次数
	FastRetrans   int64         // 快速重传次数
	TimeoutRetrans int64        // 超时重传次数
	DupAcks       int64         // 收到的重复ACK数
	IgnoredAcks   int64         // 丢弃的过期/越界ACK数
	Duration      time.Duration // 传输耗时
	Throughput    float64       // 吞吐量（字节/秒）
	AvgDelay      float64       // 平均时延（秒），首发到确认
	Performance   float64       // 综合指标 0.3*(吞吐/1000) + 0.7/平均时延
}

// finalize 传输结束后计算派生指标
func (m *Metrics) finalize(duration time.Duration, delaySum time.Duration, delayCount int64) {
	m.Duration = duration
	if duration > 0 {
		m.Throughput = float64(m.TotalBytes) / duration.Seconds()
	}
	if delayCount > 0 {
		m.AvgDelay = delaySum.Seconds() / float64(delayCount)
	}
	if m.AvgDelay > 0 {
		m.Performance = 0.3*(m.Throughput/1000.0) + 0.7/m.AvgDelay
	}
}

// String 按"吞吐, 时延, 综合指标"输出
func (m *Metrics) String() string {
	return fmt.Sprintf("%.6f, %.6f, %.6f", m.Throughput, m.AvgDelay, m.Performance)
}
