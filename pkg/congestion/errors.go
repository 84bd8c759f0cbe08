package congestion

import "errors"

var (
	// ErrInvalidWindow 固定窗口大小非正
	ErrInvalidWindow = errors.New("congestion: window size must be positive")
	// ErrInvalidCwnd 初始拥塞窗口或阈值非法
	ErrInvalidCwnd = errors.New("congestion: initial cwnd/ssthresh must not be negative")
)
