package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/model"
)

type ProjectStore struct {
	db *sql.DB
}

func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

func scanProject(scanner interface{ Scan(...any) error }) (*model.Project, error) {
	var p model.Project
	var features string

	err := scanner.Scan(
		&p.ID, &p.ProfessorID, &p.Title, &p.Description, &p.Deadline,
		&p.Stipend, &features, &p.Closed, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if features != "" {
		if err := json.Unmarshal([]byte(features), &p.Features); err != nil {
			return nil, fmt.Errorf("decode features: %w", err)
		}
	}
	return &p, nil
}

const (
	projectCols     = `id, professor_id, title, description, deadline, stipend, features, closed, created_at, updated_at`
	projectJoinCols = `p.id, p.professor_id, p.title, p.description, p.deadline, p.stipend, p.features, p.closed, p.created_at, p.updated_at`
)

func (s *ProjectStore) Create(professorID, title, description string, deadline time.Time, stipend int64, features []string) (*model.Project, error) {
	if features == nil {
		features = []string{}
	}
	encoded, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("encode features: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO projects (id, professor_id, title, description, deadline, stipend, features) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, professorID, title, description, deadline.UTC(), stipend, string(encoded),
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return s.GetByID(id)
}

func (s *ProjectStore) GetByID(id string) (*model.Project, error) {
	row := s.db.QueryRow(`SELECT `+projectCols+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// ListOpen returns open projects with professor name and department joined
// in, newest first. This backs the student-facing browse view.
func (s *ProjectStore) ListOpen() ([]*model.Project, error) {
	rows, err := s.db.Query(
		`SELECT ` + projectJoinCols + `, u.name, u.department
		 FROM projects p JOIN users u ON u.id = p.professor_id
		 WHERE p.closed = 0
		 ORDER BY p.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list open projects: %w", err)
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		var p model.Project
		var features string
		err := rows.Scan(
			&p.ID, &p.ProfessorID, &p.Title, &p.Description, &p.Deadline,
			&p.Stipend, &features, &p.Closed, &p.CreatedAt, &p.UpdatedAt,
			&p.ProfessorName, &p.ProfessorDepartment,
		)
		if err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		if features != "" {
			if err := json.Unmarshal([]byte(features), &p.Features); err != nil {
				return nil, fmt.Errorf("decode features: %w", err)
			}
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

func (s *ProjectStore) ListByProfessor(professorID string) ([]*model.Project, error) {
	rows, err := s.db.Query(
		`SELECT `+projectCols+` FROM projects WHERE professor_id = ? ORDER BY created_at DESC`,
		professorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects by professor: %w", err)
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *ProjectStore) Update(id, title, description string, deadline time.Time, stipend int64, features []string) (*model.Project, error) {
	if features == nil {
		features = []string{}
	}
	encoded, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("encode features: %w", err)
	}

	_, err = s.db.Exec(
		`UPDATE projects SET title = ?, description = ?, deadline = ?, stipend = ?, features = ?, updated_at = datetime('now') WHERE id = ?`,
		title, description, deadline.UTC(), stipend, string(encoded), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return s.GetByID(id)
}

// Close marks a project closed; applications remain readable.
func (s *ProjectStore) Close(id string) error {
	_, err := s.db.Exec(
		`UPDATE projects SET closed = 1, updated_at = datetime('now') WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("close project: %w", err)
	}
	return nil
}

