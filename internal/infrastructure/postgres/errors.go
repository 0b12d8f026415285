package postgres

import (
	"errors"

	"github.com/ErlanBelekov/student-gifts/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	systemName  = "Postgres"
	serviceName = "PostgresRepository"

	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02"
)

func notFound(message, query string) *domain.Error {
	return domain.NewNotFound(message, domain.NotFoundDetails{Query: query, System: systemName})
}

func queryFailed(message, path string, err error) *domain.Error {
	return domain.NewService(message, domain.ServiceDetails{
		Type:        domain.ServiceExternal,
		ServiceName: serviceName,
		System:      systemName,
		Reason:      message,
		Value:       err.Error(),
		Path:        path,
	}).Wrap(err)
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
