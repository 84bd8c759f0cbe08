package congestion

import (
	"testing"
)

func TestRenoSlowStart(t *testing.T) {
	ctrl, err := NewRenoController(1, 8)
	if err != nil {
		t.Fatalf("new controller failed: %v", err)
	}

	if ctrl.Stats().State != StateSlowStart {
		t.Fatalf("initial state = %s, want %s", ctrl.Stats().State, StateSlowStart)
	}

	// 慢启动：每个新ACK窗口+1段
	for i := 0; i < 3; i++ {
		ctrl.OnNewAck()
	}
	if ctrl.WindowCapacity() != 4 {
		t.Errorf("cwnd = %d, want 4", ctrl.WindowCapacity())
	}

	// cwnd达到ssthresh后进入拥塞避免
	for i := 0; i < 4; i++ {
		ctrl.OnNewAck()
	}
	if ctrl.Stats().State != StateCongestionAvoidance {
		t.Errorf("state = %s, want %s", ctrl.Stats().State, StateCongestionAvoidance)
	}
}

func TestRenoCongestionAvoidance(t *testing.T) {
	ctrl, _ := NewRenoController(8, 8)

	if ctrl.Stats().State != StateCongestionAvoidance {
		t.Fatalf("state = %s, want %s", ctrl.Stats().State, StateCongestionAvoidance)
	}

	// 加性增长：一个新ACK增加1/cwnd段
	ctrl.OnNewAck()
	cwnd := ctrl.Stats().Cwnd
	if cwnd <= 8 || cwnd >= 9 {
		t.Errorf("cwnd = %f, want 8 + 1/8", cwnd)
	}
}

func TestRenoFastRetransmit(t *testing.T) {
	ctrl, _ := NewRenoController(1, 8)

	// 先涨到超过阈值，模拟损失前的窗口
	for i := 0; i < 9; i++ {
		ctrl.OnNewAck()
	}
	preLoss := ctrl.Stats().Cwnd

	// 前两个重复ACK不触发重传
	if ctrl.OnDupAck() || ctrl.OnDupAck() {
		t.Fatal("fast retransmit before third dup ack")
	}
	// 第三个触发，且仅触发一次
	if !ctrl.OnDupAck() {
		t.Fatal("third dup ack must trigger fast retransmit")
	}

	stats := ctrl.Stats()
	if stats.State != StateFastRecovery {
		t.Errorf("state = %s, want %s", stats.State, StateFastRecovery)
	}
	if stats.Ssthresh != preLoss/2 {
		t.Errorf("ssthresh = %f, want %f", stats.Ssthresh, preLoss/2)
	}
	if stats.Cwnd != preLoss/2+3 {
		t.Errorf("cwnd = %f, want %f", stats.Cwnd, preLoss/2+3)
	}
	if stats.FastRetransmits != 1 {
		t.Errorf("fastRetransmits = %d, want 1", stats.FastRetransmits)
	}

	// 快速恢复期间额外重复ACK使窗口膨胀，不再触发重传
	if ctrl.OnDupAck() {
		t.Error("extra dup ack in fast recovery must not retransmit again")
	}
	if ctrl.Stats().Cwnd != preLoss/2+4 {
		t.Errorf("cwnd = %f, want inflation by 1", ctrl.Stats().Cwnd)
	}
}

func TestRenoFastRecoveryDeflate(t *testing.T) {
	ctrl, _ := NewRenoController(10, 8)
	for i := 0; i < 3; i++ {
		ctrl.OnDupAck()
	}
	ssthresh := ctrl.Stats().Ssthresh

	// 新ACK终结快速恢复，窗口收缩回阈值
	ctrl.OnNewAck()
	stats := ctrl.Stats()
	if stats.State != StateCongestionAvoidance {
		t.Errorf("state = %s, want %s", stats.State, StateCongestionAvoidance)
	}
	// 收缩后继续加性增长一次
	if stats.Cwnd < ssthresh || stats.Cwnd > ssthresh+1 {
		t.Errorf("cwnd = %f, want ~%f", stats.Cwnd, ssthresh)
	}
	if stats.DupAcks != 0 {
		t.Error("dup ack count should reset on new ack")
	}
}

func TestRenoTimeoutFromAnyState(t *testing.T) {
	states := []func() *RenoController{
		func() *RenoController { // 慢启动
			c, _ := NewRenoController(1, 64)
			return c
		},
		func() *RenoController { // 拥塞避免
			c, _ := NewRenoController(64, 8)
			return c
		},
		func() *RenoController { // 快速恢复
			c, _ := NewRenoController(10, 8)
			for i := 0; i < 3; i++ {
				c.OnDupAck()
			}
			return c
		},
	}

	for i, build := range states {
		ctrl := build()
		pre := ctrl.Stats().Cwnd
		ctrl.OnTimeout()
		stats := ctrl.Stats()
		if stats.State != StateSlowStart {
			t.Errorf("case %d: state = %s, want %s", i, stats.State, StateSlowStart)
		}
		if stats.Cwnd != 1 {
			t.Errorf("case %d: cwnd = %f, want 1", i, stats.Cwnd)
		}
		want := pre / 2
		if want < minSsthresh {
			want = minSsthresh
		}
		if stats.Ssthresh != want {
			t.Errorf("case %d: ssthresh = %f, want %f", i, stats.Ssthresh, want)
		}
		if stats.Ssthresh < 1 {
			t.Errorf("case %d: ssthresh below 1", i)
		}
	}
}

func TestRenoCwndFloor(t *testing.T) {
	ctrl, _ := NewRenoController(1, 8)
	ctrl.OnTimeout()
	ctrl.OnTimeout()
	if ctrl.WindowCapacity() < 1 {
		t.Errorf("capacity = %d, below 1 segment", ctrl.WindowCapacity())
	}
}
