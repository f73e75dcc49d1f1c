package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"
)

// Drivers suportados
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// DB encapsula a conexão com o banco de dados
type DB struct {
	conn   *sql.DB
	driver string
}

// New abre a conexão com o driver informado e cria as tabelas
func New(driver, dsn string) (*DB, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("driver de banco desconhecido: %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		// sqlite serializa escritas e cada conexão ":memory:" seria um banco diferente
		conn.SetMaxOpenConns(1)
	}

	db := &DB{conn: conn, driver: driver}

	if err := db.init(); err != nil {
		conn.Close()
		return nil, err
	}

	slog.Info("banco de dados inicializado", "driver", driver)
	return db, nil
}

// Close fecha a conexão com o banco de dados
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifica se o banco responde
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// init cria as tabelas necessárias
func (db *DB) init() error {
	schema := sqliteSchema
	if db.driver == DriverPostgres {
		schema = postgresSchema
	}

	for _, stmt := range schema {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("criar schema: %w", err)
		}
	}
	return nil
}

// rebind troca os placeholders "?" por "$n" quando o banco é Postgres
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// placeholders devolve "?, ?, ?" com n posições
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// withTx executa fn numa transação, desfazendo tudo se fn falhar
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("iniciar transação: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("confirmar transação: %w", err)
	}
	return nil
}

// isUniqueViolation reconhece violação de índice único nos dois drivers
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// scanner é satisfeito por *sql.Row e *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}
