package trace

import (
	"testing"
)

func TestLog_Record_AppendsRecord(t *testing.T) {
	// GIVEN a log configured for events
	l := NewLog(LevelEvents)

	// WHEN an event record is recorded
	l.Record(Record{
		Time:       12.5,
		Kind:       KindColdStart,
		InstanceID: 1,
		Running:    1,
		Idle:       0,
		Live:       1,
	})

	// THEN the log contains one record with correct data
	if len(l.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(l.Records))
	}
	if l.Records[0].Kind != KindColdStart {
		t.Errorf("expected kind %s, got %s", KindColdStart, l.Records[0].Kind)
	}
	if l.Records[0].Time != 12.5 {
		t.Errorf("expected time 12.5, got %v", l.Records[0].Time)
	}
}

func TestLog_Enabled(t *testing.T) {
	cases := []struct {
		name string
		log  *Log
		want bool
	}{
		{"nil log", nil, false},
		{"none level", NewLog(LevelNone), false},
		{"empty level", NewLog(""), false},
		{"events level", NewLog(LevelEvents), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.log.Enabled(); got != tc.want {
				t.Errorf("Enabled() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsValidLevel(t *testing.T) {
	for _, level := range []string{"none", "events", ""} {
		if !IsValidLevel(level) {
			t.Errorf("IsValidLevel(%q) = false, want true", level)
		}
	}
	if IsValidLevel("decisions") {
		t.Error(`IsValidLevel("decisions") = true, want false`)
	}
}
