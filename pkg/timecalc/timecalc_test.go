package timecalc

import "testing"

func TestParseClock(t *testing.T) {
	cases := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{" 18:00 ", 1080, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"12", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}

	for _, c := range cases {
		got, err := ParseClock(c.input)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error, got %d", c.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error: %v", c.input, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseClock(%q) = %d, want %d", c.input, got, c.want)
		}
	}
}

func TestPaidHours(t *testing.T) {
	cases := []struct {
		name      string
		start     string
		end       string
		breakMins int
		overnight bool
		want      float64
	}{
		{"plain day shift", "09:00", "17:00", 0, false, 8.0},
		{"day shift with break", "09:00", "17:00", 30, false, 7.5},
		{"overnight flagged", "22:00", "02:00", 0, true, 4.0},
		{"overnight inferred from end before start", "22:00", "02:00", 0, false, 4.0},
		{"evening into early morning with break", "18:00", "02:00", 30, true, 7.5},
		{"zero-length shift treated as full wrap", "10:00", "10:00", 0, false, 24.0},
		{"break exceeding span clamps to zero", "10:00", "11:00", 120, false, 0.0},
		{"quarter hours", "08:15", "12:30", 0, false, 4.25},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := PaidHours(c.start, c.end, c.breakMins, c.overnight)
			if err != nil {
				t.Fatalf("PaidHours: unexpected error: %v", err)
			}
			if got != c.want {
				t.Errorf("PaidHours(%s, %s, %d, %v) = %v, want %v",
					c.start, c.end, c.breakMins, c.overnight, got, c.want)
			}
		})
	}
}

func TestPaidHoursNeverNegative(t *testing.T) {
	starts := []string{"00:00", "06:00", "13:45", "22:00"}
	ends := []string{"00:00", "02:00", "14:00", "23:30"}
	breaks := []int{0, 15, 60, 480, 2000}

	for _, s := range starts {
		for _, e := range ends {
			for _, b := range breaks {
				got, err := PaidHours(s, e, b, false)
				if err != nil {
					t.Fatalf("PaidHours(%s, %s, %d): %v", s, e, b, err)
				}
				if got < 0 {
					t.Errorf("PaidHours(%s, %s, %d) = %v, want >= 0", s, e, b, got)
				}

				noBreak, _ := PaidHours(s, e, 0, false)
				if b > 0 && got > noBreak {
					t.Errorf("PaidHours(%s, %s, %d) = %v exceeds break-free %v", s, e, b, got, noBreak)
				}
			}
		}
	}
}

func TestPaidHoursOvernightMatchesManualWrap(t *testing.T) {
	// 18:00 to 02:00 with a 30 minute break: ((26*60 - 18*60) - 30) / 60.
	got, err := PaidHours("18:00", "02:00", 30, true)
	if err != nil {
		t.Fatalf("PaidHours: %v", err)
	}
	want := float64((26*60-18*60)-30) / 60.0
	if got != want {
		t.Errorf("PaidHours = %v, want %v", got, want)
	}
}

func TestCrossesMidnight(t *testing.T) {
	if !CrossesMidnight("22:00", "02:00") {
		t.Error("22:00-02:00 should cross midnight")
	}
	if !CrossesMidnight("10:00", "10:00") {
		t.Error("equal start/end should read as crossing midnight")
	}
	if CrossesMidnight("09:00", "17:00") {
		t.Error("09:00-17:00 should not cross midnight")
	}
	if CrossesMidnight("bad", "17:00") {
		t.Error("unparseable input should not cross midnight")
	}
}

func TestFormatHours(t *testing.T) {
	cases := []struct {
		hours float64
		want  string
	}{
		{8, "8h"},
		{7.5, "7.5h"},
		{4.25, "4.25h"},
		{0, "0h"},
	}

	for _, c := range cases {
		if got := FormatHours(c.hours); got != c.want {
			t.Errorf("FormatHours(%v) = %q, want %q", c.hours, got, c.want)
		}
	}
}
