package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lizet96/citas-backend/models"
)

// Bitacora guarda y consulta el registro de peticiones HTTP
type Bitacora interface {
	Registrar(ctx context.Context, r models.RegistroPeticion) error
	Listar(ctx context.Context, f FiltroBitacora, pag Paginacion) (Pagina[models.RegistroPeticion], error)
	Limpiar(ctx context.Context, antesDe time.Time) (int64, error)
}

// FiltroBitacora agrupa los filtros opcionales de la consulta de logs; los
// valores cero no filtran.
type FiltroBitacora struct {
	Nivel      string
	Metodo     string
	IP         string
	Ruta       string
	RequestID  string
	StatusCode int
	UsuarioID  int
	Desde      *time.Time
	Hasta      *time.Time
}

var columnasBitacora = []string{
	"id", "request_id", "metodo", "ruta", "status_code", "duracion_ms", "user_agent", "ip",
	"body", "params", "query", "usuario_id", "rol", "nivel", "ambiente", "pid", "url", "fecha",
}

func (f FiltroBitacora) especificacion() Especificacion {
	var esp Especificacion
	if f.Nivel != "" {
		esp = esp.Y(Donde("nivel", Igual, f.Nivel))
	}
	if f.Metodo != "" {
		esp = esp.Y(Donde("metodo", Igual, strings.ToUpper(f.Metodo)))
	}
	if f.StatusCode != 0 {
		esp = esp.Y(Donde("status_code", Igual, f.StatusCode))
	}
	if f.UsuarioID != 0 {
		esp = esp.Y(Donde("usuario_id", Igual, f.UsuarioID))
	}
	if f.IP != "" {
		esp = esp.Y(Donde("ip", Igual, f.IP))
	}
	if f.RequestID != "" {
		esp = esp.Y(Donde("request_id", Igual, f.RequestID))
	}
	if f.Ruta != "" {
		esp = esp.Y(Donde("ruta", Parecido, "%"+f.Ruta+"%"))
	}
	if f.Desde != nil {
		esp = esp.Y(Donde("fecha", MayorIgual, *f.Desde))
	}
	if f.Hasta != nil {
		esp = esp.Y(Donde("fecha", MenorIgual, *f.Hasta))
	}
	return esp
}

func camposBitacora(r models.RegistroPeticion) map[string]any {
	return map[string]any{
		"id":          r.ID,
		"request_id":  r.RequestID,
		"metodo":      r.Metodo,
		"ruta":        r.Ruta,
		"status_code": r.StatusCode,
		"duracion_ms": models.Valor(r.DuracionMs),
		"user_agent":  models.Valor(r.UserAgent),
		"ip":          r.IP,
		"body":        models.Valor(r.Body),
		"params":      models.Valor(r.Params),
		"query":       models.Valor(r.Query),
		"usuario_id":  models.Valor(r.UsuarioID),
		"rol":         models.Valor(r.Rol),
		"nivel":       r.Nivel,
		"ambiente":    r.Ambiente,
		"pid":         models.Valor(r.PID),
		"url":         models.Valor(r.URL),
		"fecha":       r.Fecha,
	}
}

// BitacoraPostgres escribe la bitácora en la tabla logs
type BitacoraPostgres struct {
	db Consultor
}

func NuevaBitacoraPostgres(db Consultor) *BitacoraPostgres {
	return &BitacoraPostgres{db: db}
}

func (b *BitacoraPostgres) Registrar(ctx context.Context, r models.RegistroPeticion) error {
	query := `
		INSERT INTO logs (
			request_id, metodo, ruta, status_code, duracion_ms, user_agent, ip, body,
			params, query, usuario_id, rol, nivel, ambiente, pid, url, fecha
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)
	`
	_, err := b.db.Exec(ctx, query,
		r.RequestID, r.Metodo, r.Ruta, r.StatusCode, r.DuracionMs, r.UserAgent, r.IP, r.Body,
		r.Params, r.Query, r.UsuarioID, r.Rol, r.Nivel, r.Ambiente, r.PID, r.URL, r.Fecha,
	)
	if err != nil {
		return fmt.Errorf("guardar log: %w", err)
	}
	return nil
}

func (b *BitacoraPostgres) Listar(ctx context.Context, f FiltroBitacora, pag Paginacion) (Pagina[models.RegistroPeticion], error) {
	pag = pag.normalizar()
	clausula, args := where(f.especificacion(), 1)

	var total int64
	if err := b.db.QueryRow(ctx, "SELECT COUNT(*) FROM logs"+clausula, args...).Scan(&total); err != nil {
		return Pagina[models.RegistroPeticion]{}, fmt.Errorf("contar logs: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM logs%s ORDER BY fecha DESC, id DESC LIMIT $%d OFFSET $%d",
		strings.Join(columnasBitacora, ", "), clausula, len(args)+1, len(args)+2)
	rows, err := b.db.Query(ctx, query, append(args, pag.Tamano, pag.Offset())...)
	if err != nil {
		return Pagina[models.RegistroPeticion]{}, fmt.Errorf("consultar logs: %w", err)
	}
	defer rows.Close()

	var lista []models.RegistroPeticion
	for rows.Next() {
		var r models.RegistroPeticion
		err := rows.Scan(&r.ID, &r.RequestID, &r.Metodo, &r.Ruta, &r.StatusCode, &r.DuracionMs,
			&r.UserAgent, &r.IP, &r.Body, &r.Params, &r.Query, &r.UsuarioID, &r.Rol, &r.Nivel,
			&r.Ambiente, &r.PID, &r.URL, &r.Fecha)
		if err != nil {
			return Pagina[models.RegistroPeticion]{}, fmt.Errorf("leer log: %w", err)
		}
		lista = append(lista, r)
	}
	if err := rows.Err(); err != nil {
		return Pagina[models.RegistroPeticion]{}, err
	}
	return NuevaPagina(lista, pag, total), nil
}

func (b *BitacoraPostgres) Limpiar(ctx context.Context, antesDe time.Time) (int64, error) {
	tag, err := b.db.Exec(ctx, "DELETE FROM logs WHERE fecha < $1", antesDe)
	if err != nil {
		return 0, fmt.Errorf("limpiar logs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// BitacoraMemoria guarda la bitácora en memoria con un máximo de registros;
// al llenarse descarta los más antiguos.
type BitacoraMemoria struct {
	mu        sync.Mutex
	maximo    int
	sigID     int
	registros []models.RegistroPeticion
}

func NuevaBitacoraMemoria(maximo int) *BitacoraMemoria {
	if maximo <= 0 {
		maximo = 1000
	}
	return &BitacoraMemoria{maximo: maximo}
}

func (b *BitacoraMemoria) Registrar(_ context.Context, r models.RegistroPeticion) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sigID++
	r.ID = b.sigID
	b.registros = append(b.registros, r)
	if exceso := len(b.registros) - b.maximo; exceso > 0 {
		b.registros = append([]models.RegistroPeticion(nil), b.registros[exceso:]...)
	}
	return nil
}

func (b *BitacoraMemoria) Listar(_ context.Context, f FiltroBitacora, pag Paginacion) (Pagina[models.RegistroPeticion], error) {
	esp := f.especificacion()

	b.mu.Lock()
	defer b.mu.Unlock()

	var lista []models.RegistroPeticion
	// más recientes primero
	for i := len(b.registros) - 1; i >= 0; i-- {
		r := b.registros[i]
		campos := camposBitacora(r)
		ok := true
		for _, c := range esp {
			cumple, err := c.cumple(campos[c.Columna])
			if err != nil {
				return Pagina[models.RegistroPeticion]{}, err
			}
			if !cumple {
				ok = false
				break
			}
		}
		if ok {
			lista = append(lista, r)
		}
	}

	pag = pag.normalizar()
	desde := pag.Offset()
	if desde > len(lista) {
		desde = len(lista)
	}
	hasta := desde + pag.Tamano
	if hasta > len(lista) {
		hasta = len(lista)
	}
	return NuevaPagina(lista[desde:hasta], pag, int64(len(lista))), nil
}

func (b *BitacoraMemoria) Limpiar(_ context.Context, antesDe time.Time) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	vigentes := b.registros[:0]
	var borrados int64
	for _, r := range b.registros {
		if r.Fecha.Before(antesDe) {
			borrados++
			continue
		}
		vigentes = append(vigentes, r)
	}
	b.registros = vigentes
	return borrados, nil
}
