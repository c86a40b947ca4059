package timex

import (
	"testing"
	"time"
)

func TestTime_UnixMethods(t *testing.T) {
	// Create a fixed time
	// 创建一个固定时间
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tt := Time(now)

	// Test Unix()
	if tt.Unix() != now.Unix() {
		t.Errorf("Unix() = %v, want %v", tt.Unix(), now.Unix())
	}

	// Test UnixMilli()
	if tt.UnixMilli() != now.UnixMilli() {
		t.Errorf("UnixMilli() = %v, want %v", tt.UnixMilli(), now.UnixMilli())
	}

	// Test UnixMicro()
	if tt.UnixMicro() != now.UnixMicro() {
		t.Errorf("UnixMicro() = %v, want %v", tt.UnixMicro(), now.UnixMicro())
	}

	// Test UnixNano()
	if tt.UnixNano() != now.UnixNano() {
		t.Errorf("UnixNano() = %v, want %v", tt.UnixNano(), now.UnixNano())
	}

	// Verify it's not returning time.Now() by waiting a bit
	// 通过等待一会确认它不是返回 time.Now()
	time.Sleep(10 * time.Millisecond)
	if tt.Unix() != now.Unix() {
		t.Errorf("Unix() changed after sleep, it should be static. got %v, want %v", tt.Unix(), now.Unix())
	}
}

func TestTime_MarshalJSON(t *testing.T) {
	tt := Time(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	b, err := tt.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2024-01-01T12:00:00Z"` {
		t.Errorf("MarshalJSON() = %s", b)
	}

	var back Time
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatal(err)
	}
	if !back.Time().Equal(tt.Time()) {
		t.Errorf("UnmarshalJSON() = %v, want %v", back, tt)
	}

	zero, _ := Time{}.MarshalJSON()
	if string(zero) != "null" {
		t.Errorf("zero MarshalJSON() = %s, want null", zero)
	}
}

func TestDiffForHumans(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{0, "just now"},
		{1 * time.Second, "1 second ago"},
		{45 * time.Second, "45 seconds ago"},
		{3 * time.Minute, "3 minutes ago"},
		{1 * time.Hour, "1 hour ago"},
		{49 * time.Hour, "2 days ago"},
		{15 * 24 * time.Hour, "2 weeks ago"},
		{400 * 24 * time.Hour, "1 year ago"},
		{-2 * time.Hour, "in 2 hours"},
	}
	for _, c := range cases {
		if got := DiffForHumans(now.Add(-c.ago), now); got != c.want {
			t.Errorf("DiffForHumans(-%v) = %q, want %q", c.ago, got, c.want)
		}
	}
}
