package sender

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/junbin-yang/go-rudt/pkg/congestion"
	"github.com/junbin-yang/go-rudt/pkg/logger"
	"github.com/junbin-yang/go-rudt/pkg/packet"
	"github.com/junbin-yang/go-rudt/pkg/rto"
	"github.com/junbin-yang/go-rudt/pkg/transport"
)

// Sender 发送端传输状态机
// 单一事件循环独占全部可变状态，发送/ACK/超时事件串行处理，
// 等待ACK是唯一阻塞点，且受当前RTO限定
type Sender struct {
	cfg   Config
	ch    transport.Channel
	log   logger.Logger
	clock clockwork.Clock

	// 以下为单次传输状态，每次Send从零重建
	pk             *packet.Packetizer
	ctrl           congestion.Controller
	est            *rto.Estimator
	q              *inflightQueue
	base           uint32 // 最老未确认字节偏移
	end            uint32 // 负载末尾偏移
	consecTimeouts int
	m              *Metrics
	delaySum       time.Duration
	delayCount     int64
}

// New 创建发送端实例，窗口算法等配置错误在Send时返回
func New(ch transport.Channel, cfg Config) (*Sender, error) {
	if ch == nil {
		return nil, ErrNilChannel
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &Sender{
		cfg:   cfg,
		ch:    ch,
		log:   cfg.Logger,
		clock: cfg.Clock,
	}, nil
}

// Send 执行一次完整传输，阻塞直到全部确认或终局失败。
// 同一Sender可重复调用，每次从零开始；不支持并发调用。
func (s *Sender) Send(ctx context.Context, payload []byte) (*Metrics, error) {
	if err := s.start(payload); err != nil {
		return nil, err
	}
	startAt := s.clock.Now()
	s.log.Info("传输开始",
		logger.String("algorithm", string(s.cfg.Algorithm)),
		logger.Int("segments", s.m.TotalSegments),
		logger.Int("bytes", s.m.TotalBytes))

	for s.base < s.end {
		if err := ctx.Err(); err != nil {
			return s.m, err
		}
		if err := s.fillWindow(); err != nil {
			return s.m, err
		}

		front := s.q.front()
		if front == nil {
			break
		}
		deadline := front.lastSent.Add(s.est.Timeout())
		wait := deadline.Sub(s.clock.Now())
		if wait > 0 {
			data, err := s.ch.Receive(wait)
			switch {
			case err == nil:
				ackNum, decErr := packet.DecodeAck(data)
				if decErr != nil {
					s.m.IgnoredAcks++
					s.log.Debugf("丢弃畸形ACK: %v", decErr)
					continue
				}
				s.handleAck(ackNum, s.clock.Now())
				continue
			case errors.Is(err, transport.ErrTimeout):
				// 落入下方超时处理
			default:
				return s.m, fmt.Errorf("通道接收失败: %w", err)
			}
		}
		if err := s.handleTimeout(); err != nil {
			return s.m, err
		}
	}

	if err := s.sendFin(); err != nil {
		return s.m, err
	}
	s.m.finalize(s.clock.Since(startAt), s.delaySum, s.delayCount)
	s.log.Info("传输完成",
		logger.Duration("duration", s.m.Duration),
		logger.Int64("retransmits", s.m.Retransmits),
		logger.Float64("throughput", s.m.Throughput))
	return s.m, nil
}

// Metrics 最近一次传输的统计信息
func (s *Sender) Metrics() Metrics {
	if s.m == nil {
		return Metrics{}
	}
	return *s.m
}

// WindowStats 当前窗口控制状态
func (s *Sender) WindowStats() congestion.Stats {
	if s.ctrl == nil {
		return congestion.Stats{}
	}
	return s.ctrl.Stats()
}

// start 重建单次传输状态
func (s *Sender) start(payload []byte) error {
	pk, err := packet.NewPacketizer(payload, s.cfg.MaxSegmentSize, s.cfg.InitialSeq)
	if err != nil {
		return err
	}
	ctrl, err := congestion.NewController(s.cfg.Algorithm, congestion.Config{
		WindowSize:      s.cfg.WindowSize,
		InitialCwnd:     s.cfg.InitialCwnd,
		InitialSsthresh: s.cfg.InitialSsthresh,
	})
	if err != nil {
		return err
	}
	est, err := rto.NewEstimator(s.cfg.MinRTO, s.cfg.MaxRTO)
	if err != nil {
		return err
	}

	s.pk = pk
	s.ctrl = ctrl
	s.est = est
	s.q = &inflightQueue{}
	s.base = s.cfg.InitialSeq
	s.end = pk.EndSeq()
	s.consecTimeouts = 0
	s.delaySum = 0
	s.delayCount = 0
	s.m = &Metrics{TotalBytes: pk.TotalBytes(), TotalSegments: pk.Count()}
	return nil
}

// fillWindow 按当前窗口容量补发新段
func (s *Sender) fillWindow() error {
	for s.q.len() < s.ctrl.WindowCapacity() {
		seg, ok := s.pk.Next()
		if !ok {
			break
		}
		now := s.clock.Now()
		if err := s.ch.Send(seg.Encode()); err != nil {
			return fmt.Errorf("通道发送失败: %w", err)
		}
		s.q.push(&inflightRecord{seg: seg, firstSent: now, lastSent: now})
		s.m.SegmentsSent++
		s.log.Debug("发送数据段",
			logger.Uint32("seq", seg.Seq),
			logger.Int("len", len(seg.Payload)),
			logger.Bool("last", seg.Last))
	}
	return nil
}

// handleAck 处理一个到达的累计ACK
func (s *Sender) handleAck(ackNum uint32, now time.Time) {
	switch {
	case ackNum > s.base && ackNum <= s.pk.NextSeq():
		acked := s.q.popAcked(ackNum)
		if len(acked) > 0 {
			oldest := acked[0]
			// 重传过的段无法区分ACK对应哪次发送，不采样（Karn）
			if oldest.retransmits == 0 {
				s.est.Sample(now.Sub(oldest.lastSent))
			}
			for _, r := range acked {
				s.delaySum += now.Sub(r.firstSent)
				s.delayCount++
			}
		}
		s.base = ackNum
		s.consecTimeouts = 0
		s.ctrl.OnNewAck()
	case ackNum == s.base:
		s.m.DupAcks++
		if s.ctrl.OnDupAck() {
			s.fastRetransmit(now)
		}
	default:
		// 过期或越界ACK对正确性无影响，丢弃不上报
		s.m.IgnoredAcks++
		s.log.Debugf("丢弃ACK %d（base=%d, nextSeq=%d）", ackNum, s.base, s.pk.NextSeq())
	}
}

// fastRetransmit 不等RTO立即重发base段
func (s *Sender) fastRetransmit(now time.Time) {
	front := s.q.front()
	if front == nil {
		return
	}
	if err := s.ch.Send(front.seg.Encode()); err != nil {
		s.log.Warn("快速重传发送失败", logger.GetError(err))
		return
	}
	front.lastSent = now
	front.retransmits++
	s.m.SegmentsSent++
	s.m.Retransmits++
	s.m.FastRetrans++
	s.log.Debug("快速重传", logger.Uint32("seq", front.seg.Seq))
}

// handleTimeout RTO到期处理：通知窗口控制器、退避并重发
func (s *Sender) handleTimeout() error {
	s.consecTimeouts++
	if s.consecTimeouts > s.cfg.MaxConsecutiveTimeouts {
		return fmt.Errorf("%w: 连续%d次超时", ErrPeerDead, s.consecTimeouts-1)
	}
	s.ctrl.OnTimeout()
	s.est.Backoff()
	now := s.clock.Now()

	// go-back-N整窗重发，其余算法只重发最老未确认段
	var targets []*inflightRecord
	if s.cfg.Algorithm == congestion.AlgorithmFixedWindow {
		targets = s.q.all()
	} else if front := s.q.front(); front != nil {
		targets = []*inflightRecord{front}
	}
	for _, r := range targets {
		if err := s.ch.Send(r.seg.Encode()); err != nil {
			return fmt.Errorf("超时重传发送失败: %w", err)
		}
		r.lastSent = now
		r.retransmits++
		s.m.SegmentsSent++
		s.m.Retransmits++
		s.m.TimeoutRetrans++
	}
	s.log.Debug("超时重传",
		logger.Int("count", len(targets)),
		logger.Duration("rto", s.est.Timeout()),
		logger.Int("consecutive", s.consecTimeouts))
	return nil
}

// sendFin 全部确认后重复发送结束段通知接收端
func (s *Sender) sendFin() error {
	raw := packet.NewFin(s.end).Encode()
	for i := 0; i < s.cfg.FinRepeat; i++ {
		if err := s.ch.Send(raw); err != nil {
			return fmt.Errorf("发送结束段失败: %w", err)
		}
		if s.cfg.FinInterval > 0 && i < s.cfg.FinRepeat-1 {
			s.clock.Sleep(s.cfg.FinInterval)
		}
	}
	return nil
}
