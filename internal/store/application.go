package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/model"
)

type ApplicationStore struct {
	db *sql.DB
}

func NewApplicationStore(db *sql.DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

func scanApplication(scanner interface{ Scan(...any) error }) (*model.Application, error) {
	var a model.Application
	err := scanner.Scan(&a.ID, &a.ProjectID, &a.StudentID, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

const applicationCols = `id, project_id, student_id, status, created_at, updated_at`

func (s *ApplicationStore) Create(projectID, studentID string) (*model.Application, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO applications (id, project_id, student_id) VALUES (?, ?, ?)`,
		id, projectID, studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert application: %w", err)
	}
	return s.GetByID(id)
}

func (s *ApplicationStore) GetByID(id string) (*model.Application, error) {
	row := s.db.QueryRow(`SELECT `+applicationCols+` FROM applications WHERE id = ?`, id)
	a, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	return a, nil
}

// GetByProjectAndStudent returns an existing application for the pair, or
// nil; used to reject duplicate applications before insert.
func (s *ApplicationStore) GetByProjectAndStudent(projectID, studentID string) (*model.Application, error) {
	row := s.db.QueryRow(
		`SELECT `+applicationCols+` FROM applications WHERE project_id = ? AND student_id = ?`,
		projectID, studentID,
	)
	a, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get application by project and student: %w", err)
	}
	return a, nil
}

func (s *ApplicationStore) ListByStudent(studentID string) ([]*model.Application, error) {
	rows, err := s.db.Query(
		`SELECT `+applicationCols+` FROM applications WHERE student_id = ? ORDER BY created_at DESC`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list applications by student: %w", err)
	}
	defer rows.Close()

	var apps []*model.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application row: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (s *ApplicationStore) ListByProject(projectID string) ([]*model.Application, error) {
	rows, err := s.db.Query(
		`SELECT `+applicationCols+` FROM applications WHERE project_id = ? ORDER BY created_at DESC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list applications by project: %w", err)
	}
	defer rows.Close()

	var apps []*model.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application row: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (s *ApplicationStore) UpdateStatus(id, status string) (*model.Application, error) {
	_, err := s.db.Exec(
		`UPDATE applications SET status = ?, updated_at = datetime('now') WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}
	return s.GetByID(id)
}
