package packet

// Packetizer 将字节流切分为定长有序数据段。
// 惰性生成，可通过Reset重新开始。
type Packetizer struct {
	payload    []byte
	mss        int
	initialSeq uint32
	off        int
}

// NewPacketizer 创建分段器
// mss为单段最大负载字节数；payload为空或mss<=0返回ErrInvalidInput
func NewPacketizer(payload []byte, mss int, initialSeq uint32) (*Packetizer, error) {
	if mss <= 0 || len(payload) == 0 {
		return nil, ErrInvalidInput
	}
	return &Packetizer{payload: payload, mss: mss, initialSeq: initialSeq}, nil
}

// Next 返回下一个数据段，序列号为相对起始偏移递增的字节偏移。
// 全部生成完毕后返回(nil, false)。
func (p *Packetizer) Next() (*Segment, bool) {
	if p.off >= len(p.payload) {
		return nil, false
	}
	end := p.off + p.mss
	if end > len(p.payload) {
		end = len(p.payload)
	}
	seg := &Segment{
		Seq:     p.initialSeq + uint32(p.off),
		Payload: p.payload[p.off:end],
		Last:    end == len(p.payload),
	}
	p.off = end
	return seg, true
}

// Reset 重新从头生成
func (p *Packetizer) Reset() {
	p.off = 0
}

// Count 总段数
func (p *Packetizer) Count() int {
	return (len(p.payload) + p.mss - 1) / p.mss
}

// TotalBytes 负载总字节数
func (p *Packetizer) TotalBytes() int {
	return len(p.payload)
}

// EndSeq 末尾字节偏移（最后一段之后的序列号）
func (p *Packetizer) EndSeq() uint32 {
	return p.initialSeq + uint32(len(p.payload))
}

// NextSeq 下一个待生成段的序列号
func (p *Packetizer) NextSeq() uint32 {
	return p.initialSeq + uint32(p.off)
}
