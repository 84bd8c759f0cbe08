package transport

import (
	"math/rand"
	"sync"
	"time"
)

// ------------------------------
// 内存双向通道，模拟不可靠网络路径
// 可配置丢包/乱序/重复/延迟，用于协议层测试
// ------------------------------

// PipeConfig 路径损伤配置，零值表示理想无损路径
type PipeConfig struct {
	LossRate    float64       // 丢包率 [0,1)
	DupRate     float64       // 重复率 [0,1)
	ReorderRate float64       // 乱序率 [0,1)：命中的报文延后到下一个报文之后投递
	Delay       time.Duration // 单向固定延迟
	Seed        int64         // 随机种子，0表示按时间取
}

// PipeEndpoint 管道端点，实现Channel接口
type PipeEndpoint struct {
	mu     sync.Mutex
	peer   *PipeEndpoint
	inbox  chan []byte
	rng    *rand.Rand
	cfg    PipeConfig
	held   []byte // 乱序暂扣的报文
	closed chan struct{}
	once   sync.Once
}

// NewPipe 创建一对互联端点，损伤配置对两个方向生效
func NewPipe(cfg PipeConfig) (*PipeEndpoint, *PipeEndpoint) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	a := &PipeEndpoint{
		inbox:  make(chan []byte, 1024),
		rng:    rand.New(rand.NewSource(seed)),
		cfg:    cfg,
		closed: make(chan struct{}),
	}
	b := &PipeEndpoint{
		inbox:  make(chan []byte, 1024),
		rng:    rand.New(rand.NewSource(seed + 1)),
		cfg:    cfg,
		closed: make(chan struct{}),
	}
	a.peer, b.peer = b, a
	return a, b
}

func (p *PipeEndpoint) Send(data []byte) error {
	select {
	case <-p.closed:
		return ErrClosed
	default:
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// 数据报语义：投递内容与调用方缓冲解耦
	pkt := make([]byte, len(data))
	copy(pkt, data)

	if p.rng.Float64() < p.cfg.LossRate {
		return nil // 静默丢弃，发送方无感知
	}

	if p.held != nil {
		// 先投递当前报文，再补投暂扣报文，形成乱序
		p.deliver(pkt)
		p.deliver(p.held)
		p.held = nil
		return nil
	}
	if p.rng.Float64() < p.cfg.ReorderRate {
		p.held = pkt
		return nil
	}

	p.deliver(pkt)
	if p.rng.Float64() < p.cfg.DupRate {
		p.deliver(pkt)
	}
	return nil
}

func (p *PipeEndpoint) deliver(pkt []byte) {
	target := p.peer
	push := func() {
		select {
		case target.inbox <- pkt:
		default:
			// 接收队列满，按UDP语义丢弃
		}
	}
	if p.cfg.Delay > 0 {
		time.AfterFunc(p.cfg.Delay, push)
		return
	}
	push()
}

func (p *PipeEndpoint) Receive(timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		select {
		case pkt := <-p.inbox:
			return pkt, nil
		case <-p.closed:
			return nil, ErrClosed
		default:
			return nil, ErrTimeout
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case pkt := <-p.inbox:
		return pkt, nil
	case <-p.closed:
		return nil, ErrClosed
	case <-timer.C:
		return nil, ErrTimeout
	}
}

func (p *PipeEndpoint) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}
