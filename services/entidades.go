package services

import (
	"log/slog"

	"github.com/lizet96/citas-backend/dto"
	"github.com/lizet96/citas-backend/mapper"
	"github.com/lizet96/citas-backend/models"
	"github.com/lizet96/citas-backend/repository"
)

type (
	CitaService     = CrudServiceImpl[*models.Cita, *dto.CitaDto]
	PacienteService = CrudServiceImpl[*models.Paciente, *dto.PacienteDto]
	MedicoService   = CrudServiceImpl[*models.Medico, *dto.MedicoDto]
)

func NuevoCitaService(repo repository.CrudRepository[*models.Cita], cfg *mapper.Config, log *slog.Logger) *CitaService {
	return NuevoCrudService(repo, mapper.Citas(cfg), log)
}

func NuevoPacienteService(repo repository.CrudRepository[*models.Paciente], cfg *mapper.Config, log *slog.Logger) *PacienteService {
	return NuevoCrudService(repo, mapper.Pacientes(cfg), log)
}

func NuevoMedicoService(repo repository.CrudRepository[*models.Medico], cfg *mapper.Config, log *slog.Logger) *MedicoService {
	return NuevoCrudService(repo, mapper.Medicos(cfg), log)
}

var (
	_ CrudService[*models.Cita, *dto.CitaDto]       = (*CitaService)(nil)
	_ CrudService[*models.Usuario, *dto.UsuarioDto] = (*UsuarioService)(nil)
)
