package config

import (
	"fmt"
	"time"

	"github.com/junbin-yang/go-rudt/pkg/congestion"
	"github.com/junbin-yang/go-rudt/pkg/sender"
)

// TransferConfig 传输参数配置，支持yaml/json/ini三种格式及环境变量覆盖
type TransferConfig struct {
	// Algorithm 窗口控制算法：stop_and_wait / fixed_window / reno
	Algorithm string `yaml:"algorithm" json:"algorithm" ini:"algorithm" env:"RUDT_ALGORITHM"`
	// MaxSegmentSize 单段最大负载字节数
	MaxSegmentSize int `yaml:"max_segment_size" json:"max_segment_size" ini:"max_segment_size" env:"RUDT_MAX_SEGMENT_SIZE"`
	// WindowSize 固定窗口大小，仅fixed_window使用
	WindowSize int `yaml:"window_size" json:"window_size" ini:"window_size" env:"RUDT_WINDOW_SIZE"`
	// InitialCwnd 初始拥塞窗口，仅reno使用
	InitialCwnd int `yaml:"initial_cwnd" json:"initial_cwnd" ini:"initial_cwnd" env:"RUDT_INITIAL_CWND"`
	// InitialSsthresh 初始慢启动阈值，仅reno使用
	InitialSsthresh int `yaml:"initial_ssthresh" json:"initial_ssthresh" ini:"initial_ssthresh" env:"RUDT_INITIAL_SSTHRESH"`
	// MinRTOMs/MaxRTOMs 重传超时边界（毫秒）
	MinRTOMs int `yaml:"min_rto_ms" json:"min_rto_ms" ini:"min_rto_ms" env:"RUDT_MIN_RTO_MS"`
	MaxRTOMs int `yaml:"max_rto_ms" json:"max_rto_ms" ini:"max_rto_ms" env:"RUDT_MAX_RTO_MS"`
	// MaxConsecutiveTimeouts 连续超时上限
	MaxConsecutiveTimeouts int `yaml:"max_consecutive_timeouts" json:"max_consecutive_timeouts" ini:"max_consecutive_timeouts" env:"RUDT_MAX_CONSECUTIVE_TIMEOUTS"`
	// FinRepeat 结束段重复发送次数
	FinRepeat int `yaml:"fin_repeat" json:"fin_repeat" ini:"fin_repeat" env:"RUDT_FIN_REPEAT"`
	// FinIntervalMs 结束段发送间隔（毫秒），-1表示不等待
	FinIntervalMs int `yaml:"fin_interval_ms" json:"fin_interval_ms" ini:"fin_interval_ms" env:"RUDT_FIN_INTERVAL_MS"`
	// LogLevel 日志级别：debug/info/warn/error
	LogLevel string `yaml:"log_level" json:"log_level" ini:"log_level" env:"RUDT_LOG_LEVEL"`
}

// Default 默认传输配置（Reno）
func Default() *TransferConfig {
	return &TransferConfig{
		Algorithm:              string(congestion.AlgorithmReno),
		MaxSegmentSize:         sender.DefaultMaxSegmentSize,
		MaxConsecutiveTimeouts: sender.DefaultMaxConsecutiveTimeouts,
		FinRepeat:              sender.DefaultFinRepeat,
		FinIntervalMs:          int(sender.DefaultFinInterval / time.Millisecond),
		LogLevel:               "info",
	}
}

// Validate 校验配置合法性
func (c *TransferConfig) Validate() error {
	switch congestion.AlgorithmType(c.Algorithm) {
	case congestion.AlgorithmStopWait, congestion.AlgorithmReno:
	case congestion.AlgorithmFixedWindow:
		if c.WindowSize <= 0 {
			return fmt.Errorf("fixed_window需要正的window_size，当前%d", c.WindowSize)
		}
	default:
		return fmt.Errorf("未知算法: %q", c.Algorithm)
	}
	if c.MaxSegmentSize < 0 {
		return fmt.Errorf("max_segment_size不能为负: %d", c.MaxSegmentSize)
	}
	if c.MinRTOMs < 0 || c.MaxRTOMs < 0 {
		return fmt.Errorf("RTO边界不能为负: min=%dms max=%dms", c.MinRTOMs, c.MaxRTOMs)
	}
	if c.MinRTOMs > 0 && c.MaxRTOMs > 0 && c.MinRTOMs > c.MaxRTOMs {
		return fmt.Errorf("min_rto_ms(%d)大于max_rto_ms(%d)", c.MinRTOMs, c.MaxRTOMs)
	}
	if c.MaxConsecutiveTimeouts < 0 {
		return fmt.Errorf("max_consecutive_timeouts不能为负: %d", c.MaxConsecutiveTimeouts)
	}
	return nil
}

// SenderConfig 转换为发送端配置
func (c *TransferConfig) SenderConfig() sender.Config {
	return sender.Config{
		Algorithm:              congestion.AlgorithmType(c.Algorithm),
		MaxSegmentSize:         c.MaxSegmentSize,
		WindowSize:             c.WindowSize,
		InitialCwnd:            c.InitialCwnd,
		InitialSsthresh:        c.InitialSsthresh,
		MinRTO:                 time.Duration(c.MinRTOMs) * time.Millisecond,
		MaxRTO:                 time.Duration(c.MaxRTOMs) * time.Millisecond,
		MaxConsecutiveTimeouts: c.MaxConsecutiveTimeouts,
		FinRepeat:              c.FinRepeat,
		FinInterval:            time.Duration(c.FinIntervalMs) * time.Millisecond,
	}
}
