package rto

import (
	"testing"
	"time"
)

func TestFirstSample(t *testing.T) {
	e, err := NewEstimator(0, 0)
	if err != nil {
		t.Fatalf("new estimator failed: %v", err)
	}

	e.Sample(100 * time.Millisecond)
	if e.SRTT() != 100*time.Millisecond {
		t.Errorf("SRTT = %v, want 100ms", e.SRTT())
	}
	if e.RTTVar() != 50*time.Millisecond {
		t.Errorf("RTTVAR = %v, want 50ms", e.RTTVar())
	}
	// 100ms + 4*50ms = 300ms
	if e.Timeout() != 300*time.Millisecond {
		t.Errorf("Timeout = %v, want 300ms", e.Timeout())
	}
}

func TestConvergence(t *testing.T) {
	e, _ := NewEstimator(0, 0)

	// 恒定100ms样本流：SRTT收敛到100ms附近，RTTVAR趋近0
	for i := 0; i < 100; i++ {
		e.Sample(100 * time.Millisecond)
	}

	srtt := e.SRTT()
	if srtt < 99*time.Millisecond || srtt > 101*time.Millisecond {
		t.Errorf("SRTT = %v, want ~100ms", srtt)
	}

	// RTO趋近SRTT但不会低于下限
	to := e.Timeout()
	if to < DefaultMinRTO {
		t.Errorf("Timeout = %v, below minimum %v", to, DefaultMinRTO)
	}
	if to > 300*time.Millisecond {
		t.Errorf("Timeout = %v, did not converge", to)
	}
}

func TestBounds(t *testing.T) {
	e, _ := NewEstimator(200*time.Millisecond, time.Second)

	// 极小RTT仍受下限保护
	for i := 0; i < 50; i++ {
		e.Sample(time.Millisecond)
	}
	if e.Timeout() != 200*time.Millisecond {
		t.Errorf("Timeout = %v, want floor 200ms", e.Timeout())
	}

	// 极大RTT受上限截断
	e.Sample(10 * time.Second)
	if e.Timeout() != time.Second {
		t.Errorf("Timeout = %v, want cap 1s", e.Timeout())
	}
}

func TestInvalidBounds(t *testing.T) {
	if _, err := NewEstimator(time.Second, time.Millisecond); err != ErrInvalidBounds {
		t.Errorf("err = %v, want ErrInvalidBounds", err)
	}
}

func TestInitialTimeout(t *testing.T) {
	e, _ := NewEstimator(0, 0)
	// 无样本时使用初始RTO
	if e.Timeout() != time.Second {
		t.Errorf("initial Timeout = %v, want 1s", e.Timeout())
	}
}

func TestBackoff(t *testing.T) {
	e, _ := NewEstimator(0, 0)
	e.Sample(100 * time.Millisecond)

	base := e.Timeout()
	e.Backoff()
	if e.Timeout() != 2*base {
		t.Errorf("after one backoff Timeout = %v, want %v", e.Timeout(), 2*base)
	}
	e.Backoff()
	if e.Timeout() != 4*base {
		t.Errorf("after two backoffs Timeout = %v, want %v", e.Timeout(), 4*base)
	}

	// 成功采样后退避清零
	e.Sample(100 * time.Millisecond)
	if e.Timeout() >= 2*base {
		t.Errorf("backoff not reset on sample, Timeout = %v", e.Timeout())
	}
}

func TestBackoffCap(t *testing.T) {
	e, _ := NewEstimator(0, time.Second)
	e.Sample(300 * time.Millisecond)
	for i := 0; i < 40; i++ {
		e.Backoff()
	}
	if e.Timeout() != time.Second {
		t.Errorf("Timeout = %v, want cap 1s", e.Timeout())
	}
}

func TestNegativeSampleIgnored(t *testing.T) {
	e, _ := NewEstimator(0, 0)
	e.Sample(-time.Second)
	if e.SRTT() != 0 {
		t.Errorf("negative sample accepted, SRTT = %v", e.SRTT())
	}
}
