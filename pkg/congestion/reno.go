package congestion

// ------------------------------
// Reno拥塞控制算法实现（经典TCP Reno，段为单位）
// 慢启动、拥塞避免、快速重传和快速恢复
// 丢失只能通过重复ACK或超时推断，超时是最严重的信号，
// 无论当前处于何种状态都回到慢启动
// ------------------------------

// Reno状态常量
const (
	StateSlowStart           = "SLOW_START"           // 慢启动：每个新ACK窗口+1段
	StateCongestionAvoidance = "CONGESTION_AVOIDANCE" // 拥塞避免：每个新ACK窗口+1/cwnd段
	StateFastRecovery        = "FAST_RECOVERY"        // 快速恢复：每个额外重复ACK窗口+1段
)

const (
	defaultInitialCwnd     = 1
	defaultInitialSsthresh = 64
	// dupAckThreshold 触发快速重传的重复ACK门限
	dupAckThreshold = 3
	// minSsthresh 丢失事件后的阈值下限
	minSsthresh = 2
)

type RenoController struct {
	baseState
	cwnd     float64
	ssthresh float64
	state    string
}

func NewRenoController(initialCwnd, initialSsthresh int) (*RenoController, error) {
	if initialCwnd < 0 || initialSsthresh < 0 {
		return nil, ErrInvalidCwnd
	}
	if initialCwnd == 0 {
		initialCwnd = defaultInitialCwnd
	}
	if initialSsthresh == 0 {
		initialSsthresh = defaultInitialSsthresh
	}
	r := &RenoController{
		cwnd:     float64(initialCwnd),
		ssthresh: float64(initialSsthresh),
		state:    StateSlowStart,
	}
	if r.cwnd >= r.ssthresh {
		r.state = StateCongestionAvoidance
	}
	return r, nil
}

// WindowCapacity 向下取整到整段，下限1段
func (r *RenoController) WindowCapacity() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	capacity := int(r.cwnd)
	if capacity < 1 {
		capacity = 1
	}
	return capacity
}

func (r *RenoController) OnNewAck() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dupAcks = 0

	// 快速恢复被新ACK终结：窗口收缩回阈值
	if r.state == StateFastRecovery {
		r.cwnd = r.ssthresh
		r.state = StateCongestionAvoidance
	}

	if r.state == StateSlowStart {
		r.cwnd += 1
		if r.cwnd >= r.ssthresh {
			r.state = StateCongestionAvoidance
		}
	} else {
		// 加性增长，聚合后约等于每RTT+1段
		r.cwnd += 1 / r.cwnd
	}
}

func (r *RenoController) OnDupAck() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dupAcks++

	if r.state == StateFastRecovery {
		// 每个额外重复ACK说明有一段离开网络，窗口膨胀
		r.cwnd += 1
		return false
	}

	if r.dupAcks == dupAckThreshold {
		r.ssthresh = r.cwnd / 2
		if r.ssthresh < minSsthresh {
			r.ssthresh = minSsthresh
		}
		r.cwnd = r.ssthresh + dupAckThreshold
		r.state = StateFastRecovery
		r.fastRetransmits++
		return true
	}
	return false
}

func (r *RenoController) OnTimeout() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timeouts++
	r.ssthresh = r.cwnd / 2
	if r.ssthresh < minSsthresh {
		r.ssthresh = minSsthresh
	}
	r.cwnd = 1
	r.dupAcks = 0
	r.state = StateSlowStart
}

func (r *RenoController) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Stats{
		Algorithm:       AlgorithmReno,
		Cwnd:            r.cwnd,
		Ssthresh:        r.ssthresh,
		State:           r.state,
		DupAcks:         r.dupAcks,
		FastRetransmits: r.fastRetransmits,
		Timeouts:        r.timeouts,
	}
}
