package thermal

import (
	"errors"
	"testing"
)

func buildPacket(discriminator byte, rowID int, payload []byte) []byte {
	pkt := make([]byte, packetLen)
	pkt[0] = byte(rowID & 0xFF)
	pkt[1] = byte((rowID>>8)&0x0F) | (discriminator << 4)
	copy(pkt[headerLen:], payload)
	return pkt
}

func rowPayloadAllValue(v uint16) []byte {
	buf := make([]byte, rowPayload)
	for c := 0; c < Cols; c++ {
		buf[c*2] = byte(v >> 8)
		buf[c*2+1] = byte(v)
	}
	return buf
}

func TestPartialFrameCompletesOnAll60Rows(t *testing.T) {
	p := NewPartialFrame()
	var data []byte
	for row := 0; row < Rows; row++ {
		data = append(data, buildPacket(discDataRow, row, rowPayloadAllValue(uint16(row)))...)
	}
	if _, err := p.Feed(data); err != nil {
		t.Fatalf("Feed returned error: %v", err)
	}
	if !p.Complete() {
		t.Fatal("expected frame to be complete after all 60 rows")
	}
	raster := p.Finalize()
	for row := 0; row < Rows; row++ {
		if got := raster.At(row, 0); got != uint16(row) {
			t.Errorf("row %d: got %d, want %d", row, got, row)
		}
	}
}

func TestPartialFrameIncompleteWithMissingRow(t *testing.T) {
	p := NewPartialFrame()
	var data []byte
	for row := 0; row < Rows; row++ {
		if row == 37 {
			continue
		}
		data = append(data, buildPacket(discDataRow, row, rowPayloadAllValue(1))...)
	}
	if _, err := p.Feed(data); err != nil {
		t.Fatalf("Feed returned error: %v", err)
	}
	if p.Complete() {
		t.Fatal("expected frame to be incomplete with row 37 missing")
	}
}

func TestPartialFrameDuplicateRowIsDesync(t *testing.T) {
	p := NewPartialFrame()
	payload := rowPayloadAllValue(5)
	data := append(buildPacket(discDataRow, 0, payload), buildPacket(discDataRow, 0, payload)...)

	_, err := p.Feed(data)
	var desync *DesyncError
	if !errors.As(err, &desync) {
		t.Fatalf("expected *DesyncError, got %T: %v", err, err)
	}
}

func TestPartialFrameUpperBitsNonzeroIsDesync(t *testing.T) {
	p := NewPartialFrame()
	payload := make([]byte, rowPayload)
	payload[0] = 0xFF // upper bits set: 0xFF00 & 0xC000 != 0
	payload[1] = 0x00

	data := buildPacket(discDataRow, 0, payload)
	if _, err := p.Feed(data); err == nil {
		t.Fatal("expected a DesyncError for nonzero upper bits")
	}
}

func TestPartialFrameDiscardPacketsAreSkipped(t *testing.T) {
	p := NewPartialFrame()
	data := buildPacket(discDiscard, 0, make([]byte, rowPayload))
	if _, err := p.Feed(data); err != nil {
		t.Fatalf("Feed returned error for discard packet: %v", err)
	}
	if p.received != 0 {
		t.Fatal("discard packet must not mark any row received")
	}
}

func TestPartialFrameTelemetryRowsForwarded(t *testing.T) {
	p := NewPartialFrame()
	telPayload := rowPayloadAllValue(9)
	data := buildPacket(discTelemetry, 0, telPayload)

	rows, err := p.Feed(data)
	if err != nil {
		t.Fatalf("Feed returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 telemetry row forwarded, got %d", len(rows))
	}
}
