package congestion

// ------------------------------
// 固定滑动窗口：窗口固定为配置值N
// 最多N段在途，超时采用go-back-N整窗重发（由发送循环执行）
// ------------------------------

type FixedWindowController struct {
	baseState
	window int
}

func NewFixedWindowController(window int) (*FixedWindowController, error) {
	if window <= 0 {
		return nil, ErrInvalidWindow
	}
	return &FixedWindowController{window: window}, nil
}

func (f *FixedWindowController) WindowCapacity() int {
	return f.window
}

func (f *FixedWindowController) OnNewAck() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dupAcks = 0
}

// OnDupAck 固定窗口不做快速重传，丢失恢复只依赖超时
func (f *FixedWindowController) OnDupAck() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dupAcks++
	return false
}

func (f *FixedWindowController) OnTimeout() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timeouts++
	f.dupAcks = 0
}

func (f *FixedWindowController) Stats() Stats {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return Stats{
		Algorithm: AlgorithmFixedWindow,
		Cwnd:      float64(f.window),
		DupAcks:   f.dupAcks,
		Timeouts:  f.timeouts,
	}
}
