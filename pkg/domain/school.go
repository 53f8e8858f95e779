package domain

import "time"

// Group is a cohort of students attached to a course.
type Group struct {
	ID           ID         `json:"id"`
	Name         string     `json:"name"`
	CourseID     ID         `json:"course_id,omitempty"`
	CourseName   string     `json:"course_name,omitempty"`
	TeacherName  string     `json:"teacher_name,omitempty"`
	StudentCount int        `json:"student_count"`
	StartDate    string     `json:"start_date,omitempty"`
	EndDate      string     `json:"end_date,omitempty"`
	Status       string     `json:"status,omitempty"` // "active", "finished"
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// Course is an entry of the course catalog.
type Course struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	DurationHrs int    `json:"duration_hours,omitempty"`
	Level       string `json:"level,omitempty"`
	Active      bool   `json:"active"`
}

// Class is one scheduled session of a group.
type Class struct {
	ID        ID     `json:"id"`
	GroupID   ID     `json:"group_id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Topic     string `json:"topic,omitempty"`
	MeetURL   string `json:"meet_url,omitempty"`
}

// Material is a resource attached to a class.
type Material struct {
	ID          ID     `json:"id"`
	ClassID     ID     `json:"class_id"`
	Title       string `json:"title"`
	Type        string `json:"type"` // "pdf", "video", "link", "document"
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Evaluation is an assessment for a group.
type Evaluation struct {
	ID          ID       `json:"id"`
	GroupID     ID       `json:"group_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type"` // "exam", "assignment", "project", "quiz"
	DueDate     string   `json:"due_date"`
	MaxScore    float64  `json:"max_score"`
	Weight      float64  `json:"weight,omitempty"`
	Score       *float64 `json:"score,omitempty"`
}

// AttendanceRecord is one student's presence in one class.
type AttendanceRecord struct {
	ID          ID     `json:"id,omitempty"`
	ClassID     ID     `json:"class_id"`
	StudentID   ID     `json:"student_id"`
	StudentName string `json:"student_name,omitempty"`
	Status      string `json:"status"` // "present", "absent", "late", "excused"
	Date        string `json:"date,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Certificate is a credential issued on course completion.
type Certificate struct {
	ID           ID     `json:"id"`
	CredentialID string `json:"credential_id"`
	CourseName   string `json:"course_name"`
	StudentName  string `json:"student_name,omitempty"`
	IssuedAt     string `json:"issued_at"`
	VerifyURL    string `json:"verify_url,omitempty"`
}

// AttendanceStatuses are the statuses accepted by the attendance endpoint.
var AttendanceStatuses = []string{"present", "absent", "late", "excused"}

// MaterialTypes are the accepted material kinds.
var MaterialTypes = []string{"pdf", "video", "link", "document"}

// EvaluationTypes are the accepted evaluation kinds.
var EvaluationTypes = []string{"exam", "assignment", "project", "quiz"}
