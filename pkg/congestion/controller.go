package congestion

import (
	"fmt"
	"sync"
)

// Controller 窗口控制接口，三种传输策略的统一抽象
// 窗口容量以整段为单位，由发送循环在每轮填充窗口前读取
type Controller interface {
	// WindowCapacity 当前允许在途的最大段数
	WindowCapacity() int
	// OnNewAck 收到推进send base的新累计ACK时调用
	OnNewAck()
	// OnDupAck 收到重复ACK时调用，返回true表示应立即快速重传base段
	OnDupAck() bool
	// OnTimeout 超时重传触发时调用
	OnTimeout()
	// Stats 获取当前窗口状态统计
	Stats() Stats
}

// Stats 窗口控制统计信息
type Stats struct {
	Algorithm       AlgorithmType
	Cwnd            float64 // 当前窗口（段），固定窗口时为常量N
	Ssthresh        float64 // 慢启动阈值（仅Reno有意义）
	State           string  // 当前状态（仅Reno有意义）
	DupAcks         int     // 当前连续重复ACK计数
	FastRetransmits int64   // 快速重传触发次数
	Timeouts        int64   // 超时事件次数
}

// baseState 各算法共享的计数状态
type baseState struct {
	mu              sync.RWMutex
	dupAcks         int
	fastRetransmits int64
	timeouts        int64
}

type AlgorithmType string

const (
	AlgorithmStopWait    AlgorithmType = "stop_and_wait"
	AlgorithmFixedWindow AlgorithmType = "fixed_window"
	AlgorithmReno        AlgorithmType = "reno"
)

// Config 窗口控制配置
type Config struct {
	WindowSize      int // 固定窗口大小（fixed_window）
	InitialCwnd     int // 初始拥塞窗口（reno），0表示默认1段
	InitialSsthresh int // 初始慢启动阈值（reno），0表示默认64段
}

// NewController 创建窗口控制器实例（根据算法类型）
func NewController(algorithm AlgorithmType, cfg Config) (Controller, error) {
	switch algorithm {
	case AlgorithmStopWait:
		return NewStopWaitController(), nil
	case AlgorithmFixedWindow:
		return NewFixedWindowController(cfg.WindowSize)
	case AlgorithmReno:
		return NewRenoController(cfg.InitialCwnd, cfg.InitialSsthresh)
	default:
		return nil, fmt.Errorf("不支持的窗口控制算法: %s（支持的算法：%v）", algorithm,
			[]AlgorithmType{AlgorithmStopWait, AlgorithmFixedWindow, AlgorithmReno})
	}
}
