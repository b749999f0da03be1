package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const (
	// HospitalIDKey carries the authenticated hospital's UUID through the
	// request context. Set by the auth middleware, read by repositories.
	HospitalIDKey contextKey = "hospital_id"

	// DBConnKey optionally carries a dedicated connection (e.g. inside a
	// transaction). Repositories fall back to the pool when unset.
	DBConnKey contextKey = "db_conn"
)

// WithHospitalID returns a context scoped to the given hospital.
func WithHospitalID(ctx context.Context, hospitalID string) context.Context {
	return context.WithValue(ctx, HospitalIDKey, hospitalID)
}

// WithConn pins a dedicated connection to the context so a sequence of
// repository calls runs on it instead of the pool.
func WithConn(ctx context.Context, conn *pgxpool.Conn) context.Context {
	return context.WithValue(ctx, DBConnKey, conn)
}

// HospitalFromContext retrieves the authenticated hospital ID from context.
// Empty string means the request is unauthenticated.
func HospitalFromContext(ctx context.Context) string {
	hid, _ := ctx.Value(HospitalIDKey).(string)
	return hid
}

// ConnFromContext retrieves a request-scoped database connection from context.
func ConnFromContext(ctx context.Context) *pgxpool.Conn {
	conn, _ := ctx.Value(DBConnKey).(*pgxpool.Conn)
	return conn
}
