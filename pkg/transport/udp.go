package transport

import (
	"net"
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultBufSize 单个数据报读缓冲大小
	DefaultBufSize = 1536
)

// UDPChannel 基于已连接UDP套接字的通道实现
type UDPChannel struct {
	conn    *net.UDPConn
	bufSize int
}

// NewUDPChannel 创建UDP通道，localAddr为nil时由系统分配端口
func NewUDPChannel(localAddr, remoteAddr *net.UDPAddr) (*UDPChannel, error) {
	if remoteAddr == nil {
		return nil, errors.New("remote address required")
	}
	conn, err := net.DialUDP("udp", localAddr, remoteAddr)
	if err != nil {
		return nil, errors.Wrap(err, "dial udp failed")
	}
	return &UDPChannel{conn: conn, bufSize: DefaultBufSize}, nil
}

// Dial 按"host:port"地址创建UDP通道
func Dial(remote string) (*UDPChannel, error) {
	addr, err := net.ResolveUDPAddr("udp", remote)
	if err != nil {
		return nil, errors.Wrap(err, "resolve remote address failed")
	}
	return NewUDPChannel(nil, addr)
}

// SetBufSize 调整读缓冲，需大于最大报文长度
func (c *UDPChannel) SetBufSize(n int) {
	if n > 0 {
		c.bufSize = n
	}
}

func (c *UDPChannel) Send(data []byte) error {
	if _, err := c.conn.Write(data); err != nil {
		return errors.Wrap(err, "udp send failed")
	}
	return nil
}

func (c *UDPChannel) Receive(timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)
	if timeout <= 0 {
		// 非阻塞探测
		deadline = time.Now()
	}
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, errors.Wrap(err, "set read deadline failed")
	}

	buf := make([]byte, c.bufSize)
	n, err := c.conn.Read(buf)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, ErrTimeout
		}
		return nil, errors.Wrap(err, "udp receive failed")
	}
	return buf[:n], nil
}

func (c *UDPChannel) Close() error {
	return c.conn.Close()
}

func (c *UDPChannel) LocalAddr() net.Addr  { return c.conn.LocalAddr() }
func (c *UDPChannel) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }
