package device

// EventBatchRequest is the payload a badge/biometric reader posts. Readers
// retry and can deliver the same batch more than once, so processing must be
// safe under duplicate delivery.
type EventBatchRequest struct {
	AttendanceRecords []Event `json:"attendance_records"`
}

// Event is one raw clock event as the reader reports it. employee_id is the
// device-local numeric slot, not ours; matching happens on person_name.
type Event struct {
	PersonName       string `json:"person_name"`
	EmployeeID       string `json:"employee_id"`
	Timestamp        string `json:"timestamp"`
	DoorNo           string `json:"door_no"`
	VerifyMode       string `json:"verify_mode"`
	EventDescription string `json:"event_description"`
}

// IngestSummary reports what a batch did. Records that matched but changed
// nothing (duplicate deliveries, ordinary clock-outs) appear in none of the
// created/updated/skipped buckets.
type IngestSummary struct {
	TotalRecords int `json:"total_records"`
	Created      int `json:"created"`
	Updated      int `json:"updated"`
	Skipped      int `json:"skipped"`
}
