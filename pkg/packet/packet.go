package packet

import (
	"encoding/binary"
	"errors"
)

// 线路格式（必须与接收端严格一致）：
//   数据段: 4字节大端序列号 + 1字节标志位 + 负载
//   ACK:    4字节大端累计确认号（下一个期望的字节偏移）

const (
	// SeqIDSize 序列号字节数
	SeqIDSize = 4
	// FlagSize 标志位字节数
	FlagSize = 1
	// HeaderSize 数据段头部总长度
	HeaderSize = SeqIDSize + FlagSize
	// AckSize ACK报文长度
	AckSize = SeqIDSize

	// FlagLast 末段标志位
	FlagLast byte = 0x01

	// FinMarker 传输结束标记负载
	FinMarker = "==FINACK=="
)

var (
	ErrInvalidInput = errors.New("packet: invalid input")
	ErrShortPacket  = errors.New("packet: packet too short")
)

// Segment 数据段，创建后不可变
type Segment struct {
	Seq     uint32 // 字节偏移序列号
	Payload []byte
	Last    bool // 是否为最后一段
}

// Encode 编码为线路格式
func (s *Segment) Encode() []byte {
	buf := make([]byte, HeaderSize+len(s.Payload))
	binary.BigEndian.PutUint32(buf[:SeqIDSize], s.Seq)
	if s.Last {
		buf[SeqIDSize] = FlagLast
	}
	copy(buf[HeaderSize:], s.Payload)
	return buf
}

// DecodeSegment 解码数据段
func DecodeSegment(data []byte) (*Segment, error) {
	if len(data) < HeaderSize {
		return nil, ErrShortPacket
	}
	seg := &Segment{
		Seq:  binary.BigEndian.Uint32(data[:SeqIDSize]),
		Last: data[SeqIDSize]&FlagLast != 0,
	}
	if len(data) > HeaderSize {
		seg.Payload = make([]byte, len(data)-HeaderSize)
		copy(seg.Payload, data[HeaderSize:])
	}
	return seg, nil
}

// EncodeAck 编码累计ACK
func EncodeAck(ackNum uint32) []byte {
	buf := make([]byte, AckSize)
	binary.BigEndian.PutUint32(buf, ackNum)
	return buf
}

// DecodeAck 解码累计ACK
func DecodeAck(data []byte) (uint32, error) {
	if len(data) < AckSize {
		return 0, ErrShortPacket
	}
	return binary.BigEndian.Uint32(data[:AckSize]), nil
}

// NewFin 构造传输结束段，序列号为负载末尾偏移
func NewFin(endSeq uint32) *Segment {
	return &Segment{Seq: endSeq, Payload: []byte(FinMarker), Last: true}
}
