package sender

import (
	"time"

	"github.com/junbin-yang/go-rudt/pkg/packet"
)

// inflightRecord 在途段记录，发送时创建，被累计确认后销毁
type inflightRecord struct {
	seg         *packet.Segment
	firstSent   time.Time // 首次发送时间，用于时延统计
	lastSent    time.Time // 最近发送时间，用于超时判定和RTT采样
	retransmits int       // 重传次数，非0时其ACK不作RTT样本（Karn）
}

// inflightQueue 在途段队列，序列号严格递增
type inflightQueue struct {
	records []*inflightRecord
}

func (q *inflightQueue) push(r *inflightRecord) {
	q.records = append(q.records, r)
}

func (q *inflightQueue) len() int {
	return len(q.records)
}

// front 最老的未确认段，队列空返回nil
func (q *inflightQueue) front() *inflightRecord {
	if len(q.records) == 0 {
		return nil
	}
	return q.records[0]
}

// popAcked 弹出所有被累计ACK覆盖的记录（seq < ackNum）
func (q *inflightQueue) popAcked(ackNum uint32) []*inflightRecord {
	n := 0
	for n < len(q.records) && q.records[n].seg.Seq < ackNum {
		n++
	}
	acked := q.records[:n]
	q.records = q.records[n:]
	return acked
}

// all 全部在途记录，go-back-N整窗重发时遍历
func (q *inflightQueue) all() []*inflightRecord {
	return q.records
}
