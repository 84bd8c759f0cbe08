package packet

import (
	"bytes"
	"testing"
)

func TestSegmentCodec(t *testing.T) {
	seg := &Segment{Seq: 9000, Payload: []byte("hello"), Last: true}
	raw := seg.Encode()

	if len(raw) != HeaderSize+5 {
		t.Fatalf("encoded length = %d, want %d", len(raw), HeaderSize+5)
	}

	decoded, err := DecodeSegment(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Seq != 9000 {
		t.Errorf("seq = %d, want 9000", decoded.Seq)
	}
	if !decoded.Last {
		t.Error("last flag lost")
	}
	if !bytes.Equal(decoded.Payload, []byte("hello")) {
		t.Errorf("payload = %q, want hello", decoded.Payload)
	}
}

func TestSegmentCodec_BigEndian(t *testing.T) {
	// 接收端按大端解析序列号，字节序错误会直接破坏互通
	seg := &Segment{Seq: 0x01020304, Payload: []byte{0xff}}
	raw := seg.Encode()
	want := []byte{0x01, 0x02, 0x03, 0x04, 0x00, 0xff}
	if !bytes.Equal(raw, want) {
		t.Errorf("wire bytes = %x, want %x", raw, want)
	}
}

func TestDecodeSegment_Short(t *testing.T) {
	if _, err := DecodeSegment([]byte{1, 2, 3}); err != ErrShortPacket {
		t.Errorf("err = %v, want ErrShortPacket", err)
	}
}

func TestAckCodec(t *testing.T) {
	raw := EncodeAck(123456)
	ack, err := DecodeAck(raw)
	if err != nil {
		t.Fatalf("decode ack failed: %v", err)
	}
	if ack != 123456 {
		t.Errorf("ack = %d, want 123456", ack)
	}

	if _, err := DecodeAck([]byte{1}); err != ErrShortPacket {
		t.Errorf("short ack err = %v, want ErrShortPacket", err)
	}
}

func TestNewPacketizer_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		mss     int
	}{
		{"EmptyPayload", nil, 100},
		{"ZeroMSS", []byte("data"), 0},
		{"NegativeMSS", []byte("data"), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPacketizer(tt.payload, tt.mss, 0); err != ErrInvalidInput {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestPacketizer_ExactSplit(t *testing.T) {
	// 10000字节、段长1000 → 正好10段
	payload := make([]byte, 10000)
	p, err := NewPacketizer(payload, 1000, 0)
	if err != nil {
		t.Fatalf("new packetizer failed: %v", err)
	}
	if p.Count() != 10 {
		t.Fatalf("count = %d, want 10", p.Count())
	}

	var segs []*Segment
	for {
		seg, ok := p.Next()
		if !ok {
			break
		}
		segs = append(segs, seg)
	}
	if len(segs) != 10 {
		t.Fatalf("generated %d segments, want 10", len(segs))
	}
	for i, seg := range segs {
		if seg.Seq != uint32(i*1000) {
			t.Errorf("segment %d seq = %d, want %d", i, seg.Seq, i*1000)
		}
		if len(seg.Payload) != 1000 {
			t.Errorf("segment %d payload len = %d, want 1000", i, len(seg.Payload))
		}
		if seg.Last != (i == 9) {
			t.Errorf("segment %d last = %v", i, seg.Last)
		}
	}
}

func TestPacketizer_TailSegment(t *testing.T) {
	p, _ := NewPacketizer(make([]byte, 2500), 1000, 0)
	if p.Count() != 3 {
		t.Fatalf("count = %d, want 3", p.Count())
	}
	var last *Segment
	for {
		seg, ok := p.Next()
		if !ok {
			break
		}
		last = seg
	}
	if len(last.Payload) != 500 {
		t.Errorf("tail payload len = %d, want 500", len(last.Payload))
	}
	if !last.Last {
		t.Error("tail segment should carry last flag")
	}
	if p.EndSeq() != 2500 {
		t.Errorf("end seq = %d, want 2500", p.EndSeq())
	}
}

func TestPacketizer_Reset(t *testing.T) {
	p, _ := NewPacketizer([]byte("abcdef"), 4, 100)
	first, _ := p.Next()
	p.Next()
	if _, ok := p.Next(); ok {
		t.Fatal("expected exhaustion after two segments")
	}

	p.Reset()
	again, ok := p.Next()
	if !ok {
		t.Fatal("reset did not restart the sequence")
	}
	if again.Seq != first.Seq || !bytes.Equal(again.Payload, first.Payload) {
		t.Error("restarted sequence differs from the first run")
	}
	if first.Seq != 100 {
		t.Errorf("initial seq = %d, want 100", first.Seq)
	}
}
