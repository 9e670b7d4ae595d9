package models

import (
	"strings"
	"time"
)

// AttendanceStatus labels one day's attendance. The well-known labels below
// form a closed set; anything else is carried verbatim as a custom label.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
	StatusLeave   AttendanceStatus = "leave"
	StatusHalfDay AttendanceStatus = "half-day"
)

// ParseStatus normalizes a label into the closed set where possible.
// Unknown labels survive as custom statuses rather than failing.
func ParseStatus(label string) AttendanceStatus {
	switch AttendanceStatus(strings.ToLower(strings.TrimSpace(label))) {
	case StatusPresent:
		return StatusPresent
	case StatusAbsent:
		return StatusAbsent
	case StatusLate:
		return StatusLate
	case StatusLeave:
		return StatusLeave
	case StatusHalfDay:
		return StatusHalfDay
	}
	return AttendanceStatus(strings.TrimSpace(label))
}

// IsCustom reports whether the status is outside the closed set
func (s AttendanceStatus) IsCustom() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusLeave, StatusHalfDay:
		return false
	}
	return true
}

// ImpliesPresence reports whether the status means the staff member was on
// site that day. Custom labels are treated as on-site: the source system only
// ever used custom labels for site-specific presence variants.
func (s AttendanceStatus) ImpliesPresence() bool {
	switch s {
	case StatusAbsent, StatusLeave:
		return false
	}
	return true
}

// AttendanceMethod records which path created or last touched a record
type AttendanceMethod string

const (
	MethodManual    AttendanceMethod = "manual"
	MethodAuto      AttendanceMethod = "auto"
	MethodBiometric AttendanceMethod = "biometric"
	MethodMobile    AttendanceMethod = "mobile"
)

// IsCustom reports whether the method is outside the closed set
func (m AttendanceMethod) IsCustom() bool {
	switch m {
	case MethodManual, MethodAuto, MethodBiometric, MethodMobile:
		return false
	}
	return true
}

// AttendanceRecord is one (staff, calendar day) attendance entry. Exactly one
// exists per key; edits overwrite fields in place and records are never
// deleted. WorkHours is always re-derived from the two times, never stored
// independently, and may be negative when the recorded times are inconsistent.
type AttendanceRecord struct {
	ID           string           `json:"id"`
	StaffID      string           `json:"staff_id"`
	StaffName    string           `json:"staff_name"`
	Date         string           `json:"date"` // YYYY-MM-DD, no time component
	CheckInTime  *time.Time       `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time       `json:"check_out_time,omitempty"`
	Status       AttendanceStatus `json:"status"`
	Method       AttendanceMethod `json:"method"`
	WorkHours    float64          `json:"work_hours"`
	Notes        string           `json:"notes,omitempty"`
	Location     string           `json:"location,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// MarkAttendanceRequest is the full-form marking request
type MarkAttendanceRequest struct {
	StaffID  string     `json:"staff_id"`
	Date     string     `json:"date"` // YYYY-MM-DD; defaults to today
	Status   string     `json:"status"`
	CheckIn  *time.Time `json:"check_in,omitempty"`
	CheckOut *time.Time `json:"check_out,omitempty"`
	Method   string     `json:"method"`
	Notes    string     `json:"notes"`
	Location string     `json:"location"`
}

// EditAttendanceRequest patches an existing record. Nil fields are left alone.
type EditAttendanceRequest struct {
	Status   *string    `json:"status,omitempty"`
	CheckIn  *time.Time `json:"check_in,omitempty"`
	CheckOut *time.Time `json:"check_out,omitempty"`
	Method   *string    `json:"method,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
	Location *string    `json:"location,omitempty"`
}

// QuickMarkRequest is the one-click marking request
type QuickMarkRequest struct {
	StaffID string `json:"staff_id"`
	Status  string `json:"status"` // present, absent, leave or half-day
}
