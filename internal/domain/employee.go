package domain

import (
	"time"
)

// Employee is the identity the attendance system attributes check-ins to.
// The recognition core treats the ID as an opaque label.
type Employee struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Gender    string    `json:"gender,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// AttendanceRecord is one check-in event, including rejected ("unknown")
// recognitions which are kept for auditing.
type AttendanceRecord struct {
	ID         int64     `json:"id"`
	EmployeeID *int64    `json:"employee_id,omitempty"`
	Code       string    `json:"code,omitempty"`
	Name       string    `json:"name"`
	CheckType  string    `json:"check_type"`
	Score      float64   `json:"score"`
	IsUnknown  bool      `json:"is_unknown"`
	CreatedAt  time.Time `json:"created_at"`
}

// Check types for AttendanceRecord.
const (
	CheckTypeIn  = "IN"
	CheckTypeOut = "OUT"
)

// AttendanceFilter narrows an attendance history query. Zero values mean no
// restriction; Limit defaults to a server-side cap when unset.
type AttendanceFilter struct {
	EmployeeID *int64
	From       time.Time
	To         time.Time
	Limit      int
}
