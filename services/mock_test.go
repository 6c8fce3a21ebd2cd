package services

import (
	"context"

	"github.com/lizet96/citas-backend/models"
	"github.com/lizet96/citas-backend/repository"
)

// repoMock permite simular fallos del almacenamiento
type repoMock struct {
	repository.CrudRepository[*models.Cita]

	GuardarTodosFunc  func(ctx context.Context, l []*models.Cita) ([]*models.Cita, error)
	EliminarPorIDFunc func(ctx context.Context, id int) error
	GuardarFunc       func(ctx context.Context, c *models.Cita) (*models.Cita, error)
}

func (m *repoMock) GuardarTodos(ctx context.Context, l []*models.Cita) ([]*models.Cita, error) {
	return m.GuardarTodosFunc(ctx, l)
}

func (m *repoMock) EliminarPorID(ctx context.Context, id int) error {
	return m.EliminarPorIDFunc(ctx, id)
}

func (m *repoMock) Guardar(ctx context.Context, c *models.Cita) (*models.Cita, error) {
	return m.GuardarFunc(ctx, c)
}
