package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator devolve a instância compartilhada, que reporta campos pelo nome JSON
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(jsonTagName)
	})
	return validate
}

// SetupGin faz o binding do gin usar os nomes JSON nas mensagens de erro
func SetupGin() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonTagName)
	}
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// Struct valida s e devolve a mensagem do primeiro campo inválido
func Struct(s interface{}) error {
	if err := Validator().Struct(s); err != nil {
		return errors.New(Message(err))
	}
	return nil
}

// Message converte um erro de validação (ou de binding) em uma frase para o cliente
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Dados inválidos"
	}

	e := verrs[0]
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s é obrigatório", field)
	case "email":
		return "Email inválido"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s deve ter pelo menos %s caracteres", field, e.Param())
		}
		if e.Kind() == reflect.Slice || e.Kind() == reflect.Map {
			return fmt.Sprintf("%s é obrigatório", field)
		}
		return fmt.Sprintf("%s deve ser no mínimo %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s deve ser no máximo %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s deve ser maior ou igual a %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s deve ser maior que %s", field, e.Param())
	default:
		return fmt.Sprintf("%s inválido", field)
	}
}
