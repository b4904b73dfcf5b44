package clock

import (
	"testing"
	"time"
)

func TestTimerAdvanceAndReset(t *testing.T) {
	c := New()
	c.Advance(1.0 / 60)
	c.Advance(1.0 / 60)
	if c.Now() <= 0 {
		t.Errorf("Now() should be positive after advancing, got %v", c.Now())
	}
	c.ResetTimer()
	if c.Now() != 0 {
		t.Errorf("ResetTimer should zero the timer, got %v", c.Now())
	}
}

func TestCounter(t *testing.T) {
	c := New()
	c.IncrCounter()
	c.IncrCounter()
	c.IncrCounter()
	if c.Counter() != 3 {
		t.Errorf("Counter() = %v, want 3", c.Counter())
	}
	c.ClearCounter()
	if c.Counter() != 0 {
		t.Errorf("ClearCounter should zero the counter, got %v", c.Counter())
	}
}

func TestDaysSince2000AtEpoch(t *testing.T) {
	got := DaysSince2000(epoch2000)
	if got < -0.01 || got > 0.01 {
		t.Errorf("DaysSince2000(epoch) = %v, want ~0", got)
	}
}

func TestDaysSince2000OneDayLater(t *testing.T) {
	later := epoch2000.Add(24 * time.Hour)
	got := DaysSince2000(later)
	if got < 0.99 || got > 1.01 {
		t.Errorf("DaysSince2000(epoch+24h) = %v, want ~1", got)
	}
}
