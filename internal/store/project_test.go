package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/database"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/model"
)

func setupProjectTestDB(t *testing.T) (*ProjectStore, *UserStore, *sql.DB) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewProjectStore(db), NewUserStore(db), db
}

func createProfessor(t *testing.T, us *UserStore, email string) *model.User {
	t.Helper()
	u, err := us.Create(email, "Prof Rao", model.RoleProfessor, "CSE", "h")
	if err != nil {
		t.Fatalf("create professor: %v", err)
	}
	return u
}

func TestProjectCreate(t *testing.T) {
	ps, us, _ := setupProjectTestDB(t)
	prof := createProfessor(t, us, "rao@iitjammu.ac.in")

	deadline := time.Now().UTC().Add(30 * 24 * time.Hour)
	p, err := ps.Create(prof.ID, "ML for Edge Devices", "TinyML research", deadline, 12000, []string{"GPU access", "Paper co-authorship"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if p.Title != "ML for Edge Devices" {
		t.Errorf("title = %q", p.Title)
	}
	if p.Closed {
		t.Error("new project should be open")
	}
	if len(p.Features) != 2 {
		t.Errorf("features = %v, want 2 entries", p.Features)
	}
	if p.Stipend != 12000 {
		t.Errorf("stipend = %d, want 12000", p.Stipend)
	}
}

func TestProjectListOpen(t *testing.T) {
	ps, us, _ := setupProjectTestDB(t)
	prof := createProfessor(t, us, "rao@iitjammu.ac.in")

	deadline := time.Now().UTC().Add(24 * time.Hour)
	open, _ := ps.Create(prof.ID, "Open Project", "", deadline, 0, nil)
	closed, _ := ps.Create(prof.ID, "Closed Project", "", deadline, 0, nil)
	if err := ps.Close(closed.ID); err != nil {
		t.Fatalf("close: %v", err)
	}

	projects, err := ps.ListOpen()
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("len = %d, want 1", len(projects))
	}
	if projects[0].ID != open.ID {
		t.Errorf("id = %q, want %q", projects[0].ID, open.ID)
	}
	if projects[0].ProfessorName != "Prof Rao" {
		t.Errorf("professor name = %q, want %q", projects[0].ProfessorName, "Prof Rao")
	}
	if projects[0].ProfessorDepartment != "CSE" {
		t.Errorf("professor department = %q, want %q", projects[0].ProfessorDepartment, "CSE")
	}
}

func TestProjectListByProfessor(t *testing.T) {
	ps, us, _ := setupProjectTestDB(t)
	p1 := createProfessor(t, us, "rao@iitjammu.ac.in")
	p2 := createProfessor(t, us, "iyer@iitjammu.ac.in")

	deadline := time.Now().UTC().Add(24 * time.Hour)
	ps.Create(p1.ID, "A", "", deadline, 0, nil)
	ps.Create(p1.ID, "B", "", deadline, 0, nil)
	ps.Create(p2.ID, "C", "", deadline, 0, nil)

	projects, err := ps.ListByProfessor(p1.ID)
	if err != nil {
		t.Fatalf("list by professor: %v", err)
	}
	if len(projects) != 2 {
		t.Errorf("len = %d, want 2", len(projects))
	}
}

func TestProjectUpdate(t *testing.T) {
	ps, us, _ := setupProjectTestDB(t)
	prof := createProfessor(t, us, "rao@iitjammu.ac.in")

	deadline := time.Now().UTC().Add(24 * time.Hour)
	p, _ := ps.Create(prof.ID, "Old Title", "old", deadline, 0, nil)

	newDeadline := deadline.Add(48 * time.Hour)
	updated, err := ps.Update(p.ID, "New Title", "new", newDeadline, 5000, []string{"Remote"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "New Title" {
		t.Errorf("title = %q, want %q", updated.Title, "New Title")
	}
	if updated.Stipend != 5000 {
		t.Errorf("stipend = %d, want 5000", updated.Stipend)
	}
	if len(updated.Features) != 1 || updated.Features[0] != "Remote" {
		t.Errorf("features = %v, want [Remote]", updated.Features)
	}
}

func TestProjectGetMissing(t *testing.T) {
	ps, _, _ := setupProjectTestDB(t)

	p, err := ps.GetByID("no-such-id")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p != nil {
		t.Error("expected nil for missing project")
	}
}
