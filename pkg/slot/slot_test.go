package slot

import (
	"bytes"
	"testing"

	"github.com/spdm-embedded/spdm-go/pkg/config"
)

func testConfig() *config.Config {
	c := &config.Config{NumSlots: 2, MaxCertChainSize: 64}
	c.ApplyDefaults()
	return c
}

func TestFillAndSelectRoundtrip(t *testing.T) {
	table := New(testConfig())
	chain := []byte("pretend-certificate-chain-bytes")

	if err := table.Fill(0, chain, config.HashSHA256, config.AsymECDSA_P256); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	s, err := table.Select(0)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if !bytes.Equal(s.Chain(), chain) {
		t.Errorf("Chain() = % x, want % x", s.Chain(), chain)
	}
}

func TestSelectEmptySlotFails(t *testing.T) {
	table := New(testConfig())
	if _, err := table.Select(1); err != ErrSlotEmpty {
		t.Fatalf("got %v, want ErrSlotEmpty", err)
	}
}

func TestSlotIndicesBounded(t *testing.T) {
	table := New(testConfig())
	if _, err := table.Select(-1); err != ErrSlotIndexOutOfRange {
		t.Fatalf("got %v, want ErrSlotIndexOutOfRange", err)
	}
	if _, err := table.Select(table.NumSlots()); err != ErrSlotIndexOutOfRange {
		t.Fatalf("got %v, want ErrSlotIndexOutOfRange", err)
	}
}

func TestFillRejectsOversizeChain(t *testing.T) {
	table := New(testConfig())
	big := make([]byte, 65)
	if err := table.Fill(0, big, config.HashSHA256, config.AsymECDSA_P256); err != ErrCertTooLarge {
		t.Fatalf("got %v, want ErrCertTooLarge", err)
	}
}

func TestOccupiedReflectsFillState(t *testing.T) {
	table := New(testConfig())
	if table.Occupied(0) {
		t.Error("slot reported occupied before Fill")
	}
	_ = table.Fill(0, []byte("x"), config.HashSHA256, config.AsymECDSA_P256)
	if !table.Occupied(0) {
		t.Error("slot reported empty after Fill")
	}
}
