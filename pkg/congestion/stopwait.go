package congestion

// ------------------------------
// 停等协议：窗口固定为1段
// 发一段等一段，超时重发同一段
// ------------------------------

type StopWaitController struct {
	baseState
}

func NewStopWaitController() *StopWaitController {
	return &StopWaitController{}
}

func (s *StopWaitController) WindowCapacity() int {
	return 1
}

func (s *StopWaitController) OnNewAck() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dupAcks = 0
}

func (s *StopWaitController) OnDupAck() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dupAcks++
	return false
}

func (s *StopWaitController) OnTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeouts++
	s.dupAcks = 0
}

func (s *StopWaitController) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Algorithm: AlgorithmStopWait,
		Cwnd:      1,
		DupAcks:   s.dupAcks,
		Timeouts:  s.timeouts,
	}
}
