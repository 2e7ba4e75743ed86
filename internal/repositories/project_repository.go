package repositories

import (
	"context"
	"database/sql"
	"errors"

	"zakupBack/internal/models"
)

type ProjectRepository struct {
	DB *sql.DB
}

func (r *ProjectRepository) CreateProject(ctx context.Context, p models.Project) (int, error) {
	query := `INSERT INTO projects (code, name, status) VALUES (?, ?, ?)`
	res, err := r.DB.ExecContext(ctx, query, p.Code, p.Name, p.Status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

func (r *ProjectRepository) GetProjectByID(ctx context.Context, id int) (models.Project, error) {
	query := `SELECT id, code, name, status, created_at, updated_at FROM projects WHERE id = ?`
	var p models.Project
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Code, &p.Name, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, models.ErrProjectNotFound
	}
	return p, err
}

func (r *ProjectRepository) GetProjects(ctx context.Context) ([]models.Project, error) {
	query := `SELECT id, code, name, status, created_at, updated_at FROM projects ORDER BY code`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) UpdateProject(ctx context.Context, p models.Project) error {
	query := `UPDATE projects SET code = ?, name = ?, status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.DB.ExecContext(ctx, query, p.Code, p.Name, p.Status, p.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrProjectNotFound
	}
	return nil
}
