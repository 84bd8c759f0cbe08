package sender

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/junbin-yang/go-rudt/pkg/congestion"
	"github.com/junbin-yang/go-rudt/pkg/logger"
)

const (
	// DefaultMaxSegmentSize 默认单段负载，1024字节报文减去5字节头部
	DefaultMaxSegmentSize = 1019
	// DefaultMaxConsecutiveTimeouts 默认连续超时上限
	DefaultMaxConsecutiveTimeouts = 10
	// DefaultFinRepeat 结束段默认重复发送次数
	DefaultFinRepeat = 5
	// DefaultFinInterval 结束段发送间隔
	DefaultFinInterval = 100 * time.Millisecond
)

// Config 发送端配置
type Config struct {
	// Algorithm 窗口控制算法
	Algorithm congestion.AlgorithmType
	// MaxSegmentSize 单段最大负载字节数
	MaxSegmentSize int
	// WindowSize 固定窗口大小（fixed_window）
	WindowSize int
	// InitialCwnd 初始拥塞窗口（reno）
	InitialCwnd int
	// InitialSsthresh 初始慢启动阈值（reno）
	InitialSsthresh int
	// MinRTO/MaxRTO 重传超时边界，0使用默认值
	MinRTO time.Duration
	MaxRTO time.Duration
	// MaxConsecutiveTimeouts 连续超时上限，超过视为对端失联
	MaxConsecutiveTimeouts int
	// InitialSeq 起始序列号（字节偏移）
	InitialSeq uint32
	// FinRepeat 结束段重复次数，0使用默认值
	FinRepeat int
	// FinInterval 结束段发送间隔，负值表示不等待
	FinInterval time.Duration

	// Logger 日志实现，nil使用默认
	Logger logger.Logger
	// Clock 时钟注入，nil使用真实时钟
	Clock clockwork.Clock
}

// DefaultConfig 返回默认配置（Reno）
func DefaultConfig() Config {
	return Config{
		Algorithm:              congestion.AlgorithmReno,
		MaxSegmentSize:         DefaultMaxSegmentSize,
		MaxConsecutiveTimeouts: DefaultMaxConsecutiveTimeouts,
		FinRepeat:              DefaultFinRepeat,
		FinInterval:            DefaultFinInterval,
	}
}

// normalize 补全零值并校验，配置错误启动即失败
func (c *Config) normalize() error {
	if c.Algorithm == "" {
		c.Algorithm = congestion.AlgorithmReno
	}
	if c.MaxSegmentSize == 0 {
		c.MaxSegmentSize = DefaultMaxSegmentSize
	}
	if c.MaxSegmentSize < 0 {
		return fmt.Errorf("%w: max segment size %d", ErrInvalidConfig, c.MaxSegmentSize)
	}
	if c.MaxConsecutiveTimeouts == 0 {
		c.MaxConsecutiveTimeouts = DefaultMaxConsecutiveTimeouts
	}
	if c.MaxConsecutiveTimeouts < 0 {
		return fmt.Errorf("%w: max consecutive timeouts %d", ErrInvalidConfig, c.MaxConsecutiveTimeouts)
	}
	if c.FinRepeat == 0 {
		c.FinRepeat = DefaultFinRepeat
	}
	if c.FinInterval == 0 {
		c.FinInterval = DefaultFinInterval
	}
	if c.Logger == nil {
		c.Logger = logger.Default()
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	return nil
}
