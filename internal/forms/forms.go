package forms

import (
	"strings"

	"github.com/naveenspark/aula/pkg/client"
	"github.com/naveenspark/aula/pkg/domain"
)

// LoginForm is the email and password login.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (f LoginForm) normalized() LoginForm {
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	return f
}

// Request converts the form into the API payload.
func (f LoginForm) Request() client.LoginRequest {
	f = f.normalized()
	return client.LoginRequest{Email: f.Email, Password: f.Password}
}

// RegisterForm is the account registration.
type RegisterForm struct {
	FirstName            string `json:"first_name" validate:"required,max=80"`
	LastName             string `json:"last_name" validate:"required,max=80"`
	DNI                  string `json:"dni" validate:"required,dni"`
	Email                string `json:"email" validate:"required,email"`
	Phone                string `json:"phone" validate:"omitempty,numeric,min=9,max=15"`
	Password             string `json:"password" validate:"required"`
	PasswordConfirmation string `json:"password_confirmation"`
	Role                 string `json:"role" validate:"omitempty,oneof=student teacher"`
}

func (f RegisterForm) normalized() RegisterForm {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.DNI = strings.TrimSpace(f.DNI)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = strings.TrimSpace(f.Phone)
	f.Role = strings.ToLower(strings.TrimSpace(f.Role))
	return f
}

// Request converts the form into the API payload.
func (f RegisterForm) Request() client.RegisterRequest {
	f = f.normalized()
	return client.RegisterRequest{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		DNI:       f.DNI,
		Email:     f.Email,
		Phone:     f.Phone,
		Password:  f.Password,
		Role:      f.Role,
	}
}

// ClassForm schedules a class for a group.
type ClassForm struct {
	GroupID   domain.ID `json:"group_id" validate:"required"`
	Title     string    `json:"title" validate:"required,max=120"`
	Topic     string    `json:"topic,omitempty" validate:"max=500"`
	Date      string    `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string    `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string    `json:"end_time" validate:"required,datetime=15:04"`
	MeetURL   string    `json:"meet_url,omitempty" validate:"omitempty,url"`
}

func (f ClassForm) normalized() ClassForm {
	f.Title = strings.TrimSpace(f.Title)
	f.Topic = strings.TrimSpace(f.Topic)
	f.Date = strings.TrimSpace(f.Date)
	f.StartTime = strings.TrimSpace(f.StartTime)
	f.EndTime = strings.TrimSpace(f.EndTime)
	f.MeetURL = strings.TrimSpace(f.MeetURL)
	return f
}

// MaterialForm attaches a resource to a class.
type MaterialForm struct {
	ClassID     domain.ID `json:"class_id" validate:"required"`
	Title       string    `json:"title" validate:"required,max=120"`
	Type        string    `json:"type" validate:"required,oneof=pdf video link document"`
	URL         string    `json:"url" validate:"required,url"`
	Description string    `json:"description,omitempty" validate:"max=1000"`
}

func (f MaterialForm) normalized() MaterialForm {
	f.Title = strings.TrimSpace(f.Title)
	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	f.URL = strings.TrimSpace(f.URL)
	f.Description = strings.TrimSpace(f.Description)
	return f
}

// EvaluationForm creates an assessment for a group.
type EvaluationForm struct {
	GroupID     domain.ID `json:"group_id" validate:"required"`
	Title       string    `json:"title" validate:"required,max=120"`
	Description string    `json:"description,omitempty" validate:"max=1000"`
	Type        string    `json:"type" validate:"required,oneof=exam assignment project quiz"`
	DueDate     string    `json:"due_date" validate:"required,datetime=2006-01-02"`
	MaxScore    float64   `json:"max_score" validate:"required,gt=0,lte=100"`
	Weight      float64   `json:"weight,omitempty" validate:"gte=0,lte=100"`
}

func (f EvaluationForm) normalized() EvaluationForm {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	f.DueDate = strings.TrimSpace(f.DueDate)
	return f
}

// GroupForm opens a new group for a course.
type GroupForm struct {
	CourseID  domain.ID `json:"course_id" validate:"required"`
	Name      string    `json:"name" validate:"required,max=80"`
	StartDate string    `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string    `json:"end_date" validate:"required,datetime=2006-01-02"`
	Capacity  int       `json:"capacity,omitempty" validate:"gte=0,lte=500"`
}

func (f GroupForm) normalized() GroupForm {
	f.Name = strings.TrimSpace(f.Name)
	f.StartDate = strings.TrimSpace(f.StartDate)
	f.EndDate = strings.TrimSpace(f.EndDate)
	return f
}

// CourseForm adds a course to the catalog.
type CourseForm struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	Category    string `json:"category,omitempty" validate:"max=60"`
	DurationHrs int    `json:"duration_hours,omitempty" validate:"gte=0,lte=2000"`
	Level       string `json:"level,omitempty" validate:"omitempty,oneof=basico intermedio avanzado"`
}

func (f CourseForm) normalized() CourseForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Category = strings.TrimSpace(f.Category)
	f.Level = strings.ToLower(strings.TrimSpace(f.Level))
	return f
}

// AttendanceForm records one student's presence in a class.
type AttendanceForm struct {
	ClassID   domain.ID `json:"class_id" validate:"required"`
	StudentID domain.ID `json:"student_id" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=present absent late excused"`
	Notes     string    `json:"notes,omitempty" validate:"max=500"`
}

func (f AttendanceForm) normalized() AttendanceForm {
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	f.Notes = strings.TrimSpace(f.Notes)
	return f
}
