// createuser cria um usuário e o vincula a uma empresa, criando a empresa
// quando o CNPJ ainda não existe.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/representacao/backend/internal/adapter/database"
	"github.com/representacao/backend/internal/app/auth"
	"github.com/representacao/backend/internal/domain/model"
	"github.com/representacao/backend/internal/domain/repository"
	"github.com/representacao/backend/pkg/cnpj"
	"github.com/representacao/backend/pkg/config"
	"github.com/representacao/backend/pkg/logging"
	"github.com/representacao/backend/pkg/security"
	"go.uber.org/zap"
)

func main() {
	var (
		email       string
		password    string
		companyCNPJ string
		companyName string
		configPath  string
	)

	flag.StringVar(&email, "email", "", "Email do usuário")
	flag.StringVar(&password, "password", "", "Senha do usuário")
	flag.StringVar(&companyCNPJ, "cnpj", "", "CNPJ da empresa")
	flag.StringVar(&companyName, "company", "", "Nome da empresa (quando ainda não existe)")
	flag.StringVar(&configPath, "config", "./config", "Diretório do config.yaml")
	flag.Parse()

	if email == "" || password == "" || companyCNPJ == "" {
		fmt.Println("Uso: createuser -email=<email> -password=<senha> -cnpj=<cnpj> [-company=<nome>]")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Erro ao carregar configuração: %v\n", err)
		os.Exit(1)
	}
	if len(password) < cfg.Auth.PasswordMinLen {
		fmt.Printf("Erro: a senha deve ter pelo menos %d caracteres\n", cfg.Auth.PasswordMinLen)
		os.Exit(1)
	}
	digits, ok := cnpj.Normalize(companyCNPJ)
	if !ok {
		fmt.Println("Erro: CNPJ inválido")
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Printf("Erro ao inicializar logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, database.ConfigFrom(cfg.Database), logger)
	if err != nil {
		logger.Fatal("Falha ao conectar ao banco de dados", zap.Error(err))
	}
	defer db.Close()

	users := database.NewUserRepository(db.DB(), logger)
	companies := database.NewCompanyRepository(db.DB(), logger)

	var user *model.User
	var company *model.Company
	err = db.WithinTransaction(ctx, func(ctx context.Context) error {
		company, err = companies.GetByCNPJ(ctx, cnpj.Format(digits))
		if errors.Is(err, repository.ErrNotFound) {
			if companyName == "" {
				return fmt.Errorf("empresa %s não existe; informe -company para criá-la", cnpj.Format(digits))
			}
			company = &model.Company{Name: companyName, CNPJ: cnpj.Format(digits)}
			err = companies.Create(ctx, company)
		}
		if err != nil {
			return err
		}

		hash, err := security.HashPassword(password)
		if err != nil {
			return err
		}
		user = &model.User{Email: auth.NormalizeEmail(email), PasswordHash: hash}
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		return companies.LinkUser(ctx, user.ID, company.ID)
	})
	if err != nil {
		logger.Fatal("Falha ao criar usuário", zap.Error(err))
	}

	fmt.Printf("Usuário %s (ID %d) criado na empresa %s (ID %d)\n", user.Email, user.ID, company.Name, company.ID)
}
