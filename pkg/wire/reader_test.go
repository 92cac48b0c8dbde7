package wire

import "testing"

func TestReaderPrimitivesRoundtrip(t *testing.T) {
	buf := make([]byte, 32)
	w := NewWriter(buf)
	_ = w.PutUint8(0x01)
	_ = w.PutUint16(0x0203)
	_ = w.PutUint32(0x04050607)
	_ = w.PutUint64(0x08090A0B0C0D0E0F)

	r := NewReader(w.Written())

	u8, err := r.Uint8()
	if err != nil || u8 != 0x01 {
		t.Fatalf("Uint8() = %v, %v", u8, err)
	}
	u16, err := r.Uint16()
	if err != nil || u16 != 0x0203 {
		t.Fatalf("Uint16() = %v, %v", u16, err)
	}
	u32, err := r.Uint32()
	if err != nil || u32 != 0x04050607 {
		t.Fatalf("Uint32() = %v, %v", u32, err)
	}
	u64, err := r.Uint64()
	if err != nil || u64 != 0x08090A0B0C0D0E0F {
		t.Fatalf("Uint64() = %v, %v", u64, err)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", r.Remaining())
	}
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader([]byte{0x01})
	if _, err := r.Uint16(); err != ErrTruncated {
		t.Fatalf("got %v, want ErrTruncated", err)
	}
}

func TestReaderBytesVarRejectsOverMax(t *testing.T) {
	buf := make([]byte, 16)
	w := NewWriter(buf)
	_ = w.PutBytesVar([]byte{1, 2, 3, 4})

	r := NewReader(w.Written())
	if _, err := r.BytesVar(2); err != ErrUnexpectedValue {
		t.Fatalf("got %v, want ErrUnexpectedValue", err)
	}
}

func TestReaderNeverReadsPastInput(t *testing.T) {
	// A Reader bound to N bytes must never report success consuming
	// more than N bytes, regardless of call sequence.
	in := []byte{0x05, 0x00, 0x01, 0x02}
	r := NewReader(in)
	n, err := r.Uint16()
	if err != nil {
		t.Fatalf("Uint16: %v", err)
	}
	if _, err := r.BytesFixed(int(n)); err != ErrTruncated {
		t.Fatalf("expected ErrTruncated reading declared-but-absent bytes, got %v", err)
	}
}
