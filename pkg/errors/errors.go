package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Tipos de erro comuns
var (
	ErrNotFound           = errors.New("recurso não encontrado")
	ErrBadRequest         = errors.New("requisição inválida")
	ErrUnauthorized       = errors.New("não autorizado")
	ErrForbidden          = errors.New("acesso negado")
	ErrServiceUnavailable = errors.New("serviço indisponível")
	ErrTimeout            = errors.New("tempo de espera excedido")
)

// APIError é um erro que já sabe qual status HTTP deve produzir
type APIError struct {
	Code        int         `json:"-"`
	Message     string      `json:"error"`
	Details     interface{} `json:"details,omitempty"`
	OriginalErr error       `json:"-"`
}

// Error implementa a interface error
func (e *APIError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.OriginalErr)
	}
	return e.Message
}

// Unwrap permite usar errors.Is e errors.As
func (e *APIError) Unwrap() error {
	return e.OriginalErr
}

// New cria um novo APIError
func New(code int, message string, err error) *APIError {
	return &APIError{
		Code:        code,
		Message:     message,
		OriginalErr: err,
	}
}

// WithDetails adiciona detalhes ao erro
func (e *APIError) WithDetails(details interface{}) *APIError {
	e.Details = details
	return e
}

// As extrai um *APIError da cadeia de erros
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// NotFound cria um erro 404 com a mensagem informada
func NotFound(message string, err error) *APIError {
	if message == "" {
		message = "Recurso não encontrado"
	}
	return New(http.StatusNotFound, message, errors.Join(ErrNotFound, err))
}

// BadRequest cria um erro 400
func BadRequest(message string, err error) *APIError {
	return New(http.StatusBadRequest, message, errors.Join(ErrBadRequest, err))
}

// Unauthorized cria um erro 401
func Unauthorized(message string, err error) *APIError {
	if message == "" {
		message = "Autenticação necessária"
	}
	return New(http.StatusUnauthorized, message, errors.Join(ErrUnauthorized, err))
}

// Forbidden cria um erro 403
func Forbidden(message string, err error) *APIError {
	if message == "" {
		message = "Acesso negado"
	}
	return New(http.StatusForbidden, message, errors.Join(ErrForbidden, err))
}

// Timeout cria um erro 408
func Timeout(message string, err error) *APIError {
	if message == "" {
		message = "Tempo de espera excedido"
	}
	return New(http.StatusRequestTimeout, message, errors.Join(ErrTimeout, err))
}

// ServiceUnavailable cria um erro 503
func ServiceUnavailable(message string, err error) *APIError {
	if message == "" {
		message = "Serviço indisponível"
	}
	return New(http.StatusServiceUnavailable, message, errors.Join(ErrServiceUnavailable, err))
}

// InternalServer cria um erro 500
func InternalServer(message string, err error) *APIError {
	if message == "" {
		message = "Erro interno do servidor"
	}
	return New(http.StatusInternalServerError, message, err)
}

// StatusCode retorna o status HTTP associado a um erro qualquer
func StatusCode(err error) int {
	if apiErr, ok := As(err); ok {
		return apiErr.Code
	}
	return http.StatusInternalServerError
}
