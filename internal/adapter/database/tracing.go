package database

import (
	"context"
	"errors"

	"github.com/representacao/backend/internal/domain/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.GetTracerProvider().Tracer("representacao.repository")

// startSpan abre um span de repositório com os atributos padrão de banco
func startSpan(ctx context.Context, name, operation, table string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("db.operation", operation),
		attribute.String("db.table", table),
	)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan registra o resultado no span; not found não é tratado como erro
func endSpan(span trace.Span, err error) {
	defer span.End()

	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "")
	case errors.Is(err, repository.ErrNotFound):
		span.SetAttributes(attribute.Bool("db.found", false))
	default:
		span.SetStatus(codes.Error, "database error")
		span.SetAttributes(
			attribute.Bool("error", true),
			attribute.String("error.message", err.Error()),
		)
	}
}
