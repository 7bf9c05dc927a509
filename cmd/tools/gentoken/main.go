// gentoken emite um token JWT para testes manuais da API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/representacao/backend/pkg/config"
	"github.com/representacao/backend/pkg/logging"
	"github.com/representacao/backend/pkg/security"
)

func main() {
	var (
		userID     uint
		companyID  uint
		configPath string
	)

	flag.UintVar(&userID, "user_id", 0, "ID do usuário")
	flag.UintVar(&companyID, "company_id", 0, "ID da empresa selecionada (opcional)")
	flag.StringVar(&configPath, "config", "./config", "Diretório do config.yaml")
	flag.Parse()

	if userID == 0 {
		fmt.Println("Uso: gentoken -user_id=<ID> [-company_id=<ID>]")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Erro ao carregar configuração: %v\n", err)
		os.Exit(1)
	}
	if cfg.Auth.JWTSecret == "" {
		fmt.Println("Erro: defina JWT_SECRET_KEY ou auth.jwtSecret; um token com chave temporária não seria aceito pelo servidor")
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Printf("Erro ao inicializar logger: %v\n", err)
		os.Exit(1)
	}

	km, err := security.NewKeyManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiration, logger)
	if err != nil {
		fmt.Printf("Erro ao criar gerenciador de chaves: %v\n", err)
		os.Exit(1)
	}

	var company *uint
	if companyID > 0 {
		company = &companyID
	}

	token, err := km.GenerateToken(uint(userID), company)
	if err != nil {
		fmt.Printf("Erro ao gerar token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "\nAuthorization: Bearer %s\nExpira em %s\n", token, cfg.Auth.TokenExpiration)
}
