package http

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

var validate = validator.New()

// ValidationErrorResponse cuerpo de 400 con el detalle por campo.
type ValidationErrorResponse struct {
	dto.ErrorResponse
	Fields map[string]string `json:"fields,omitempty"`
}

// validationError etiquetas validate que fallaron, por campo.
type validationError struct {
	fields map[string]string
}

func (e *validationError) Error() string {
	names := make([]string, 0, len(e.fields))
	for f := range e.fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("campos inválidos: %s", strings.Join(names, ", "))
}

func (e *validationError) Unwrap() error { return domain.ErrInvalidInput }

// validateStruct aplica las etiquetas validate del DTO.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return &validationError{fields: fields}
}

// writeError traduce los errores de dominio a HTTP.
//
//	ErrInvalidInput        → 400 VALIDATION
//	ErrNotFound            → 404 NOT_FOUND
//	ErrInsufficientStock   → 409 INSUFFICIENT_STOCK
//	ErrDuplicate           → 409 DUPLICATE
//	ErrConcurrencyConflict → 503 CONCURRENCY_CONFLICT (el cliente puede reintentar)
//	ErrUnauthorized        → 403 FORBIDDEN
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var verr *validationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(ValidationErrorResponse{
			ErrorResponse: dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"},
			Fields:        verr.fields,
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConcurrencyConflict):
		c.Set(fiber.HeaderRetryAfter, "1")
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "CONCURRENCY_CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
