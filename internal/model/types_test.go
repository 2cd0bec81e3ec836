package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func ptr(f float64) *float64 { return &f }

func TestRow_Validate(t *testing.T) {
	tests := []struct {
		name    string
		row     Row
		wantErr error
	}{
		{
			name: "valid",
			row:  Row{ID: "101", Type: "URGENT", UrgencyLevel: "high", OriginalRate: ptr(30)},
		},
		{
			name: "zero rate is valid",
			row:  Row{ID: "101", Type: "SWAP", OriginalRate: ptr(0)},
		},
		{
			name: "nil rate is valid",
			row:  Row{ID: "101", Type: "PREMIUM"},
		},
		{
			name:    "missing id",
			row:     Row{Type: "URGENT"},
			wantErr: ErrMissingID,
		},
		{
			name:    "unknown type",
			row:     Row{ID: "1", Type: "GIG"},
			wantErr: ErrUnknownType,
		},
		{
			name:    "unknown urgency",
			row:     Row{ID: "1", Type: "URGENT", UrgencyLevel: "critical"},
			wantErr: ErrUnknownLevel,
		},
		{
			name:    "negative rate",
			row:     Row{ID: "1", Type: "URGENT", OriginalRate: ptr(-1)},
			wantErr: ErrNegativeRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.row.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRow_ToUpdate(t *testing.T) {
	row := Row{
		ID:           "101",
		Type:         "URGENT",
		Title:        "Emergency Chef Needed",
		Location:     "Berlin",
		OriginalRate: ptr(30),
		Currency:     "eur",
		Region:       "Berlin, Germany",
		Highlight:    true,
		CreatedAt:    "2024-01-25T10:00:00Z",
	}

	u := row.ToUpdate()

	if u.ID != "101" {
		t.Errorf("ID = %q, want 101", u.ID)
	}
	if u.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", u.Currency)
	}
	if u.Urgency != UrgencyLow {
		t.Errorf("Urgency = %q, want low for empty level", u.Urgency)
	}
	want := time.Date(2024, 1, 25, 10, 0, 0, 0, time.UTC)
	if !u.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", u.CreatedAt, want)
	}
	if u.Rate != "" {
		t.Errorf("Rate = %q, want empty before formatting", u.Rate)
	}
}

func TestFlexibleID_Unmarshal(t *testing.T) {
	tests := []struct {
		input string
		want  FlexibleID
	}{
		{`{"id": "101"}`, "101"},
		{`{"id": 109}`, "109"},
		{`{"id": "3f1c8a4e-2b7d-4a56-9c1e-0d2f5b6a7c8d"}`, "3f1c8a4e-2b7d-4a56-9c1e-0d2f5b6a7c8d"},
		{`{"id": null}`, ""},
	}

	for _, tt := range tests {
		var row Row
		if err := json.Unmarshal([]byte(tt.input), &row); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", tt.input, err)
		}
		if row.ID != tt.want {
			t.Errorf("Unmarshal(%s) ID = %q, want %q", tt.input, row.ID, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 1, 25, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-01-25T10:00:00Z", want},
		{"2024-01-25T11:00:00+01:00", want},
		{"2024-01-25T10:00:00", want},
		{"2024-01-25 10:00:00+00", want},
		{"2024-01-25T10:00:00.000000", want},
		{"", time.Time{}},
		{"not a time", time.Time{}},
	}

	for _, tt := range tests {
		got := ParseTimestamp(tt.input)
		if !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestUrgency_Rank(t *testing.T) {
	if !(UrgencyLow.Rank() < UrgencyMedium.Rank() && UrgencyMedium.Rank() < UrgencyHigh.Rank()) {
		t.Error("urgency tiers are not ordered low < medium < high")
	}
	if Urgency("critical").Valid() {
		t.Error("unknown urgency should not be valid")
	}
}
