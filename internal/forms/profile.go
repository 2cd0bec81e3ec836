package forms

import (
	"regexp"

	"github.com/google/uuid"
)

var (
	isoDate   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockTime = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// ProfileForm is a user profile update.
type ProfileForm struct {
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Website   string `json:"website,omitempty"`
	Role      string `json:"role"`
}

// ValidateProfile checks a profile form.
func ValidateProfile(f ProfileForm) error {
	var c checker
	c.length("username", f.Username, 3, 50)
	c.length("full_name", f.FullName, 1, 100)
	c.optionalURL("avatar_url", f.AvatarURL)
	c.optionalURL("website", f.Website)
	c.oneOf("role", f.Role, "admin", "agency", "business", "staff")
	return c.err()
}

// ShiftForm is a shift posting.
type ShiftForm struct {
	Position   string  `json:"position"`
	Company    string  `json:"company"`
	Date       string  `json:"date"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	HourlyRate float64 `json:"hourlyRate"`
}

// ValidateShift checks a shift form.
func ValidateShift(f ShiftForm) error {
	var c checker
	c.length("position", f.Position, 1, 100)
	c.length("company", f.Company, 1, 100)
	c.match("date", f.Date, isoDate, "YYYY-MM-DD")
	c.match("startTime", f.StartTime, clockTime, "HH:MM")
	c.match("endTime", f.EndTime, clockTime, "HH:MM")
	if f.HourlyRate <= 0 {
		c.fail("hourlyRate", "must be positive")
	}
	return c.err()
}

// ApplicationForm is an application for a shift.
type ApplicationForm struct {
	ShiftID string `json:"shift_id"`
	UserID  string `json:"user_id"`
	Status  string `json:"status"`
}

// ValidateApplication checks an application form.
func ValidateApplication(f ApplicationForm) error {
	var c checker
	if _, err := uuid.Parse(f.ShiftID); err != nil {
		c.fail("shift_id", "must be a UUID")
	}
	if _, err := uuid.Parse(f.UserID); err != nil {
		c.fail("user_id", "must be a UUID")
	}
	c.oneOf("status", f.Status, "pending", "accepted", "rejected")
	return c.err()
}
