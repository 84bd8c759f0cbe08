package transport

import (
	"errors"
	"time"
)

var (
	// ErrTimeout 接收超时，调用方据此回到事件循环处理重传
	ErrTimeout = errors.New("transport: receive timeout")
	// ErrClosed 通道已关闭
	ErrClosed = errors.New("transport: channel closed")
)

// Channel 不可靠数据报通道抽象
// 不保证送达、不保证有序、不抑制重复，上层必须全部容忍
type Channel interface {
	// Send 发送数据报，fire-and-forget，仅本地失败返回错误
	Send(data []byte) error
	// Receive 等待一个数据报，超出timeout返回ErrTimeout
	// timeout<=0表示非阻塞探测
	Receive(timeout time.Duration) ([]byte, error)
	Close() error
}
