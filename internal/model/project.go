package model

import "time"

type Project struct {
	ID          string    `json:"id"`
	ProfessorID string    `json:"professor_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	Stipend     int64     `json:"stipend"`
	Features    []string  `json:"features"`
	Closed      bool      `json:"closed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Denormalized professor info for listings; populated by joins only.
	ProfessorName       string `json:"professor_name,omitempty"`
	ProfessorDepartment string `json:"professor_department,omitempty"`
}
