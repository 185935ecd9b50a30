package conv

import (
	"math"
	"testing"
)

func TestAddUint32(t *testing.T) {
	tests := []struct {
		a, b   uint32
		want   uint32
		wantOK bool
	}{
		{10, 20, 30, true},
		{0, 0, 0, true},
		{math.MaxUint32 - 1, 1, math.MaxUint32, true},
		{math.MaxUint32, 1, 0, false},
		{math.MaxUint32, math.MaxUint32, 0, false},
		{1 << 31, 1 << 31, 0, false},
	}

	for _, tt := range tests {
		got, ok := AddUint32(tt.a, tt.b)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("AddUint32(%d, %d) = (%d, %v), want (%d, %v)",
				tt.a, tt.b, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestIncUint32(t *testing.T) {
	n := uint32(10)
	if !IncUint32(&n) || n != 11 {
		t.Errorf("IncUint32 from 10: got n=%d", n)
	}

	n = math.MaxUint32
	if IncUint32(&n) {
		t.Error("IncUint32 at MaxUint32 should report overflow")
	}
	if n != math.MaxUint32 {
		t.Errorf("IncUint32 must leave n unchanged on overflow, got %d", n)
	}
}

func TestIntToUint32(t *testing.T) {
	if got := IntToUint32(42); got != 42 {
		t.Errorf("IntToUint32(42) = %d", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("IntToUint32(-1) should panic")
		}
	}()
	IntToUint32(-1)
}

func TestIntToUint32Checked(t *testing.T) {
	if v, ok := IntToUint32Checked(7); !ok || v != 7 {
		t.Errorf("IntToUint32Checked(7) = (%d, %v)", v, ok)
	}
	if _, ok := IntToUint32Checked(-5); ok {
		t.Error("IntToUint32Checked(-5) should fail")
	}
}
