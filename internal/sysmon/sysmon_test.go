package sysmon

import "testing"

func TestSample_Bounds(t *testing.T) {
	s := Sample()

	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent = %v, out of range", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent = %v, out of range", s.MemPercent)
	}
}
