package services

import (
	"context"

	"zakupBack/internal/models"
	"zakupBack/internal/repositories"
)

type ProjectService struct {
	ProjectRepo *repositories.ProjectRepository
}

func (s *ProjectService) CreateProject(ctx context.Context, p models.Project) (int, error) {
	if p.Status == "" {
		p.Status = "active"
	}
	return s.ProjectRepo.CreateProject(ctx, p)
}

func (s *ProjectService) GetProjectByID(ctx context.Context, id int) (models.Project, error) {
	return s.ProjectRepo.GetProjectByID(ctx, id)
}

func (s *ProjectService) GetProjects(ctx context.Context) ([]models.Project, error) {
	return s.ProjectRepo.GetProjects(ctx)
}

func (s *ProjectService) UpdateProject(ctx context.Context, p models.Project) error {
	return s.ProjectRepo.UpdateProject(ctx, p)
}
