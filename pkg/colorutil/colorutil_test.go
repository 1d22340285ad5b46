package colorutil

import (
	"encoding/json"
	"image/color"
	"testing"
)

func TestFromFloatsRoundsAndClamps(t *testing.T) {
	tests := []struct {
		r, g, b float64
		want    RGB
	}{
		{254.6, 0.4, 127.5, RGB{255, 0, 128}},
		{255.3, -0.2, 300, RGB{255, 0, 255}},
		{-10, 12.49, 0, RGB{0, 12, 0}},
	}
	for _, tt := range tests {
		if got := FromFloats(tt.r, tt.g, tt.b); got != tt.want {
			t.Errorf("FromFloats(%v, %v, %v) = %v, want %v", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestHex(t *testing.T) {
	if got := (RGB{255, 8, 171}).Hex(); got != "#ff08ab" {
		t.Errorf("Hex() = %s, want #ff08ab", got)
	}
}

func TestFromColor(t *testing.T) {
	got := FromColor(color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	if got != (RGB{10, 20, 30}) {
		t.Errorf("FromColor() = %v", got)
	}
}

func TestJSON(t *testing.T) {
	var c RGB
	if err := json.Unmarshal([]byte(`[12, 34, 56, 255]`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c != (RGB{12, 34, 56}) {
		t.Errorf("decoded %v", c)
	}
	if err := json.Unmarshal([]byte(`[1, 2]`), &c); err == nil {
		t.Error("expected error for two channels")
	}
	if err := json.Unmarshal([]byte(`[1, 2, 256]`), &c); err == nil {
		t.Error("expected error for out of range channel")
	}
	data, _ := json.Marshal(RGB{255, 0, 0})
	if string(data) != "[255,0,0]" {
		t.Errorf("encoded %s", data)
	}
}
