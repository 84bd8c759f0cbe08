package rto

import (
	"errors"
	"time"
)

// ------------------------------
// 超时重传(RTO)估计器，RFC6298算法
// SRTT/RTTVAR指数加权移动平均，RTO = SRTT + 4*RTTVAR
// 重传段的ACK不得作为RTT样本（Karn算法），由调用方保证
// ------------------------------

const (
	alpha = 0.125 // SRTT平滑系数
	beta  = 0.25  // RTTVAR平滑系数
	k     = 4     // RTTVAR放大倍数

	// DefaultMinRTO 下限，防止虚假超时
	DefaultMinRTO = 200 * time.Millisecond
	// DefaultMaxRTO 上限，限制最坏情况下的停顿
	DefaultMaxRTO = 60 * time.Second
	// initialRTO 首个样本到达前的初始值
	initialRTO = 1 * time.Second
)

var ErrInvalidBounds = errors.New("rto: min timeout exceeds max timeout")

// Estimator RTO估计器，非并发安全，由单一事件循环持有
type Estimator struct {
	srtt      time.Duration
	rttvar    time.Duration
	min       time.Duration
	max       time.Duration
	backoff   uint // 连续超时退避次数
	hasSample bool
}

// NewEstimator 创建估计器，min/max为0时使用默认边界
func NewEstimator(min, max time.Duration) (*Estimator, error) {
	if min <= 0 {
		min = DefaultMinRTO
	}
	if max <= 0 {
		max = DefaultMaxRTO
	}
	if min > max {
		return nil, ErrInvalidBounds
	}
	return &Estimator{min: min, max: max}, nil
}

// Sample 注入一次RTT测量，并清除超时退避
func (e *Estimator) Sample(rtt time.Duration) {
	if rtt < 0 {
		return
	}
	if !e.hasSample {
		// 首个样本：SRTT=rtt, RTTVAR=rtt/2
		e.srtt = rtt
		e.rttvar = rtt / 2
		e.hasSample = true
	} else {
		delta := e.srtt - rtt
		if delta < 0 {
			delta = -delta
		}
		e.rttvar = e.rttvar + time.Duration(beta*float64(delta-e.rttvar))
		e.srtt = e.srtt + time.Duration(alpha*float64(rtt-e.srtt))
	}
	e.backoff = 0
}

// Timeout 当前超时值，含退避倍增，始终落在[min, max]区间
func (e *Estimator) Timeout() time.Duration {
	base := initialRTO
	if e.hasSample {
		base = e.srtt + k*e.rttvar
	}
	if base < e.min {
		base = e.min
	}
	// 退避倍增，溢出前截断到上限
	for i := uint(0); i < e.backoff; i++ {
		base *= 2
		if base >= e.max {
			return e.max
		}
	}
	if base > e.max {
		base = e.max
	}
	return base
}

// Backoff 连续超时后调用，倍增后续Timeout值
func (e *Estimator) Backoff() {
	e.backoff++
}

// SRTT 平滑RTT
func (e *Estimator) SRTT() time.Duration {
	return e.srtt
}

// RTTVar RTT方差
func (e *Estimator) RTTVar() time.Duration {
	return e.rttvar
}
