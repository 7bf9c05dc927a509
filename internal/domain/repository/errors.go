package repository

import "errors"

var (
	ErrNotFound  = errors.New("registro não encontrado")
	ErrDuplicate = errors.New("registro duplicado")
	ErrInUse     = errors.New("registro referenciado por outros dados")
)
