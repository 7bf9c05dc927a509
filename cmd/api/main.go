package main

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/representacao/backend/internal/app"
	"github.com/representacao/backend/pkg/config"
	"github.com/representacao/backend/pkg/logging"
	"github.com/representacao/backend/pkg/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"
)

// newServer monta o servidor HTTP ou HTTPS (certificados próprios ou Let's Encrypt)
func newServer(router http.Handler, cfg *config.Config, logger *zap.Logger) *http.Server {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	plain := &http.Server{Addr: addr, Handler: router}

	if !cfg.Server.TLS || os.Getenv("ENV") == "development" {
		logger.Info("Servidor em modo HTTP", zap.String("addr", addr))
		return plain
	}

	if certFilesExist(cfg.Server, logger) {
		logger.Info("Usando certificados TLS fornecidos",
			zap.String("certFile", cfg.Server.CertFile),
			zap.String("keyFile", cfg.Server.KeyFile))

		go serveRedirect(":80", http.HandlerFunc(redirectHTTPS), logger)
		return &http.Server{
			Addr:      ":443",
			Handler:   router,
			TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}

	domains := acmeDomains(cfg.Server.Domains)
	if len(domains) == 0 {
		logger.Warn("Nenhum domínio válido para Let's Encrypt, usando HTTP")
		return plain
	}

	email := os.Getenv("LETSENCRYPT_EMAIL")
	if email == "" {
		logger.Warn("Email para Let's Encrypt não configurado")
	}

	certManager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domains...),
		Cache:      autocert.DirCache("./certs"),
		Email:      email,
	}

	// a porta 80 atende os desafios HTTP-01 e redireciona o resto
	go serveRedirect(":80", certManager.HTTPHandler(http.HandlerFunc(redirectHTTPS)), logger)

	logger.Info("HTTPS com Let's Encrypt configurado", zap.Strings("domains", domains))
	return &http.Server{
		Addr:    ":443",
		Handler: router,
		TLSConfig: &tls.Config{
			GetCertificate: certManager.GetCertificate,
			MinVersion:     tls.VersionTLS12,
			NextProtos:     []string{"h2", "http/1.1", "acme-tls/1"},
		},
	}
}

func certFilesExist(cfg config.ServerConfig, logger *zap.Logger) bool {
	if cfg.CertFile == "" || cfg.KeyFile == "" {
		return false
	}
	for _, f := range []string{cfg.CertFile, cfg.KeyFile} {
		if _, err := os.Stat(f); err != nil {
			logger.Error("Arquivo TLS não encontrado", zap.String("file", f), zap.Error(err))
			return false
		}
	}
	return true
}

// acmeDomains usa SERVER_DOMAINS quando definida e descarta endereços locais
func acmeDomains(configured []string) []string {
	domains := configured
	if env := os.Getenv("SERVER_DOMAINS"); env != "" {
		domains = strings.Split(env, ",")
	}

	valid := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.TrimSpace(d)
		if d != "" && d != "localhost" && d != "127.0.0.1" {
			valid = append(valid, d)
		}
	}
	return valid
}

func serveRedirect(addr string, handler http.Handler, logger *zap.Logger) {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Erro no servidor de redirecionamento", zap.String("addr", addr), zap.Error(err))
	}
}

func redirectHTTPS(w http.ResponseWriter, r *http.Request) {
	target := "https://" + r.Host + r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}

func main() {
	configPath := flag.String("config", "./config", "Diretório do config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Erro ao carregar configuração: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Printf("Erro ao inicializar logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// O tracer precisa existir antes dos repositórios e middlewares
	if cfg.Tracing.Enabled {
		tp, err := telemetry.NewTracerProvider(context.Background(), cfg.Tracing, logger)
		if err != nil {
			logger.Error("Falha ao inicializar tracer", zap.Error(err))
		} else {
			defer tp.Shutdown(context.Background())
		}
	}

	ctx, span := otel.Tracer("representacao.main").Start(context.Background(), "Server Initialization")

	application, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.End()
		logger.Fatal("Falha ao inicializar aplicação", zap.Error(err))
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error("Erro ao liberar recursos", zap.Error(err))
		}
	}()
	span.End()

	if cfg.Logging.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	application.RegisterRoutes(router)

	server := newServer(router, cfg, logger)
	server.ReadTimeout = cfg.Server.ReadTimeout
	server.WriteTimeout = cfg.Server.WriteTimeout
	server.IdleTimeout = cfg.Server.IdleTimeout
	server.MaxHeaderBytes = cfg.Server.MaxHeaderBytes

	go func() {
		var err error

		if server.TLSConfig != nil {
			logger.Info("Iniciando servidor HTTPS", zap.String("addr", server.Addr))

			if cfg.Server.CertFile != "" && cfg.Server.KeyFile != "" {
				err = server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
			} else {
				// certificados do Let's Encrypt vêm do TLSConfig
				err = server.ListenAndServeTLS("", "")
			}
		} else {
			logger.Info("Iniciando servidor HTTP", zap.String("addr", server.Addr))
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Erro ao iniciar servidor", zap.Error(err))
		}
	}()

	// Esperar por sinal de interrupção para shutdown gracioso
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Erro ao encerrar servidor", zap.Error(err))
		return
	}

	logger.Info("Servidor encerrado com sucesso")
}
