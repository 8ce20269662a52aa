package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/exhibition-api/internal/application/dto"
	"github.com/jhoicas/exhibition-api/internal/domain"
	"github.com/jhoicas/exhibition-api/internal/domain/entity"
	"github.com/jhoicas/exhibition-api/internal/domain/repository"
	"github.com/jhoicas/exhibition-api/pkg/customerid"
	"github.com/jhoicas/exhibition-api/pkg/qrcode"
)

// maxCreateAttempts inserciones intentadas cuando el UNIQUE de customer_id rechaza el identificador
// (carrera entre la verificación del generador y el INSERT).
const maxCreateAttempts = 3

// CustomerUseCase casos de uso para clientes: alta con identificador y correo de bienvenida,
// consulta, edición y borrado.
type CustomerUseCase struct {
	repo     repository.CustomerRepository
	agg      *Aggregator
	notifier WelcomeNotifier
	metrics  Metrics
	log      zerolog.Logger
}

// NewCustomerUseCase construye el caso de uso. metrics puede ser nil.
func NewCustomerUseCase(
	repo repository.CustomerRepository,
	billRepo repository.BillRepository,
	notifier WelcomeNotifier,
	metrics Metrics,
	log zerolog.Logger,
) *CustomerUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &CustomerUseCase{
		repo:     repo,
		agg:      NewAggregator(billRepo),
		notifier: notifier,
		metrics:  metrics,
		log:      log,
	}
}

// Create registra un cliente, le asigna un customer_id único y envía el correo de bienvenida.
// Un fallo del correo no hace fallar el alta: la respuesta lleva email_sent=false y un Warning.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CreateCustomerResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	customer := &entity.Customer{Name: in.Name, Email: in.Email, Phone: in.Phone}
	if err := uc.insertWithUniqueID(ctx, customer); err != nil {
		return nil, err
	}
	uc.metrics.CustomerCreated()
	uc.log.Info().
		Int64("id", customer.ID).
		Str("customer_id", customer.CustomerID).
		Msg("cliente creado")

	sent := uc.sendWelcome(ctx, customer)

	resp, err := uc.toResponse(ctx, customer)
	if err != nil {
		return nil, err
	}
	out := &dto.CreateCustomerResponse{Customer: resp}
	if sent {
		out.Message = fmt.Sprintf("Customer %s created successfully! Email sent to %s with customer ID: %s",
			customer.Name, customer.Email, customer.CustomerID)
		if !customer.EmailSent {
			out.Warning = emailFlagWarning(customer)
		}
	} else {
		out.Message = fmt.Sprintf("Customer %s created with ID: %s", customer.Name, customer.CustomerID)
		out.Warning = fmt.Sprintf("Customer %s created with ID: %s, but email could not be sent. Please check email configuration.",
			customer.Name, customer.CustomerID)
	}
	return out, nil
}

// insertWithUniqueID asigna el identificador (una vez por intento) y persiste.
// El UNIQUE de la tabla es la garantía final; si rechaza, se regenera hasta maxCreateAttempts.
func (uc *CustomerUseCase) insertWithUniqueID(ctx context.Context, customer *entity.Customer) error {
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		id, err := customerid.GenerateUnique(ctx, uc.repo.ExistsByCustomerID)
		if err != nil {
			if errors.Is(err, customerid.ErrExhausted) {
				return fmt.Errorf("%w: %v", domain.ErrConflict, err)
			}
			return err
		}
		customer.CustomerID = id

		err = uc.repo.Create(ctx, customer)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return err
		}
		uc.log.Warn().Str("customer_id", id).Int("attempt", attempt).Msg("colisión de customer_id al insertar, reintentando")
	}
	return fmt.Errorf("%w: customer_id en uso tras %d intentos", domain.ErrConflict, maxCreateAttempts)
}

// emailFlagWarning aviso para el caso correo enviado pero email_sent sin persistir.
func emailFlagWarning(c *entity.Customer) string {
	return fmt.Sprintf("Email sent to %s with customer ID: %s, but email_sent could not be saved.", c.Email, c.CustomerID)
}

// sendWelcome hace un único intento de envío y, si tuvo éxito, persiste email_sent.
// Retorna true si el transporte aceptó el mensaje; customer.EmailSent refleja lo persistido.
func (uc *CustomerUseCase) sendWelcome(ctx context.Context, customer *entity.Customer) bool {
	sent := uc.notifier.Notify(customer)
	uc.metrics.WelcomeEmail(sent)
	if !sent {
		uc.log.Warn().Str("customer_id", customer.CustomerID).Str("email", customer.Email).
			Msg("correo de bienvenida no enviado")
		return false
	}
	if err := uc.repo.MarkEmailSent(ctx, customer.ID); err != nil {
		uc.log.Error().Err(err).Str("customer_id", customer.CustomerID).
			Msg("correo enviado pero no se pudo marcar email_sent")
		return true
	}
	customer.EmailSent = true
	return true
}

// SendWelcome reenvía el correo de bienvenida a un cliente existente.
func (uc *CustomerUseCase) SendWelcome(ctx context.Context, id int64) (*dto.WelcomeResponse, error) {
	customer, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	sent := uc.sendWelcome(ctx, customer)
	out := &dto.WelcomeResponse{Sent: sent, EmailSent: customer.EmailSent}
	switch {
	case sent && !customer.EmailSent:
		out.Message = emailFlagWarning(customer)
	case sent:
		out.Message = fmt.Sprintf("Email sent to %s with customer ID: %s", customer.Email, customer.CustomerID)
	default:
		out.Message = fmt.Sprintf("Email to %s could not be sent. Please check email configuration.", customer.Email)
	}
	return out, nil
}

// GetByID obtiene un cliente con su resumen de facturación.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id int64) (*dto.CustomerResponse, error) {
	customer, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, customer)
}

// GetByCustomerID busca por el identificador público (sin distinguir mayúsculas).
func (uc *CustomerUseCase) GetByCustomerID(ctx context.Context, code string) (*dto.CustomerResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !customerid.Valid(code) {
		return nil, domain.ErrNotFound
	}
	customer, err := uc.repo.GetByCustomerID(ctx, code)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(ctx, customer)
}

// List lista clientes (más recientes primero) con búsqueda, filtro por email_sent y paginación.
func (uc *CustomerUseCase) List(ctx context.Context, in dto.CustomerListRequest) (*dto.CustomerListResponse, error) {
	in.DefaultPage()
	filter := repository.CustomerFilter{
		Search:    in.Search,
		EmailSent: in.EmailSent,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.CustomerListResponse{
		Items: make([]*dto.CustomerResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}
	for _, c := range list {
		resp, err := uc.toResponse(ctx, c)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, resp)
	}
	return out, nil
}

// Update modifica nombre, email y teléfono. El customer_id se conserva.
func (uc *CustomerUseCase) Update(ctx context.Context, id int64, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	customer, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	customer.Name = in.Name
	customer.Email = in.Email
	customer.Phone = in.Phone
	if err := uc.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, customer)
}

// Delete elimina el cliente y, en cascada, sus cargos.
func (uc *CustomerUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Int64("id", id).Msg("cliente eliminado")
	return nil
}

// QRCode renderiza al vuelo el QR del customer_id. Retorna (png, nombre de archivo).
func (uc *CustomerUseCase) QRCode(ctx context.Context, id int64) ([]byte, string, error) {
	customer, err := uc.get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	png, err := qrcode.Render(customer.CustomerID)
	if err != nil {
		return nil, "", err
	}
	return png, qrcode.Filename(customer.CustomerID), nil
}

func (uc *CustomerUseCase) get(ctx context.Context, id int64) (*entity.Customer, error) {
	customer, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return customer, nil
}

func (uc *CustomerUseCase) toResponse(ctx context.Context, c *entity.Customer) (*dto.CustomerResponse, error) {
	summary, err := uc.agg.Summary(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(c, summary), nil
}
