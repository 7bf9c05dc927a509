// Package cnpj normaliza e valida o Cadastro Nacional da Pessoa Jurídica.
package cnpj

import (
	"fmt"
	"unicode"
)

// Length é a quantidade de dígitos de um CNPJ
const Length = 14

// Sanitize remove tudo que não for dígito ("12.345.678/0001-90" -> "12345678000190")
func Sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return string(out)
}

// IsValid aceita CNPJs já sanitizados com 14 dígitos que não sejam todos iguais.
// Os dígitos verificadores não são conferidos: CNPJs de teste circulam no sistema.
func IsValid(cnpj string) bool {
	if len(cnpj) != Length {
		return false
	}
	for i := 0; i < Length; i++ {
		if cnpj[i] < '0' || cnpj[i] > '9' {
			return false
		}
	}
	for i := 1; i < Length; i++ {
		if cnpj[i] != cnpj[0] {
			return true
		}
	}
	return false
}

// Normalize sanitiza e valida em um passo
func Normalize(s string) (string, bool) {
	digits := Sanitize(s)
	return digits, IsValid(digits)
}

// Format aplica a máscara 00.000.000/0000-00; entradas inválidas voltam como vieram
func Format(cnpj string) string {
	if len(cnpj) != Length {
		return cnpj
	}
	return fmt.Sprintf("%s.%s.%s/%s-%s", cnpj[0:2], cnpj[2:5], cnpj[5:8], cnpj[8:12], cnpj[12:14])
}
