package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/veriluxe/certificate-registry/interfaces"
)

//go:embed migrations/*.sql
var migrations embed.FS

// registryLockKey is the pg_advisory_xact_lock key taken by every update.
const registryLockKey int64 = 0x63657274726567 // "certreg"

// PostgresStateStore keeps registry state in two tables. Updates run in a
// transaction holding a transaction-scoped advisory lock, so mutations from
// all server processes sharing the database execute one at a time.
type PostgresStateStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPostgresStateStore connects to dsn and applies pending schema migrations.
func NewPostgresStateStore(ctx context.Context, dsn string, log *slog.Logger) (*PostgresStateStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := MigratePostgres(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStateStore{pool: pool, log: log}, nil
}

// MigratePostgres applies the embedded goose migrations.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

type postgresState struct {
	tx       pgx.Tx
	readOnly bool
}

func (s *postgresState) Admin(ctx context.Context) (interfaces.Identity, bool, error) {
	var raw []byte
	err := s.tx.QueryRow(ctx, `SELECT identity FROM registry_admin WHERE slot = 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return interfaces.Identity{}, false, nil
	}
	if err != nil {
		return interfaces.Identity{}, false, fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}

	admin, err := interfaces.NewIdentityFromBytes(raw)
	if err != nil {
		return interfaces.Identity{}, false, fmt.Errorf("corrupt admin slot: %w", err)
	}
	return admin, true, nil
}

func (s *postgresState) SetAdmin(ctx context.Context, admin interfaces.Identity) error {
	if s.readOnly {
		return errReadOnlyState
	}
	_, err := s.tx.Exec(ctx, `
		INSERT INTO registry_admin (slot, identity) VALUES (1, $1)
		ON CONFLICT (slot) DO UPDATE SET identity = EXCLUDED.identity, updated_at = now()`,
		admin.Bytes())
	if err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *postgresState) Certificate(ctx context.Context, id interfaces.CertificateID) (interfaces.Certificate, bool, error) {
	var (
		owner []byte
		cert  interfaces.Certificate
	)
	err := s.tx.QueryRow(ctx,
		`SELECT owner, metadata_hash, is_valid FROM certificates WHERE cert_id = $1`,
		string(id),
	).Scan(&owner, &cert.MetadataHash, &cert.IsValid)
	if errors.Is(err, pgx.ErrNoRows) {
		return interfaces.Certificate{}, false, nil
	}
	if err != nil {
		return interfaces.Certificate{}, false, fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}

	cert.Owner, err = interfaces.NewIdentityFromBytes(owner)
	if err != nil {
		return interfaces.Certificate{}, false, fmt.Errorf("corrupt certificate record %q: %w", id, err)
	}
	return cert, true, nil
}

func (s *postgresState) PutCertificate(ctx context.Context, id interfaces.CertificateID, cert interfaces.Certificate) error {
	if s.readOnly {
		return errReadOnlyState
	}
	_, err := s.tx.Exec(ctx, `
		INSERT INTO certificates (cert_id, owner, metadata_hash, is_valid) VALUES ($1, $2, $3, $4)
		ON CONFLICT (cert_id) DO UPDATE SET
			owner = EXCLUDED.owner,
			metadata_hash = EXCLUDED.metadata_hash,
			is_valid = EXCLUDED.is_valid,
			updated_at = now()`,
		string(id), cert.Owner.Bytes(), cert.MetadataHash, cert.IsValid)
	if err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *postgresState) ClearCertificates(ctx context.Context) error {
	if s.readOnly {
		return errReadOnlyState
	}
	if _, err := s.tx.Exec(ctx, `DELETE FROM certificates`); err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}
	return nil
}

func (p *PostgresStateStore) View(ctx context.Context, fn func(interfaces.RegistryState) error) error {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}
	defer tx.Rollback(ctx)

	return fn(&postgresState{tx: tx, readOnly: true})
}

func (p *PostgresStateStore) Update(ctx context.Context, fn func(interfaces.RegistryState) error) error {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}
	// Rollback after Commit is a no-op.
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, registryLockKey); err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}

	if err := fn(&postgresState{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}
	return nil
}

func (p *PostgresStateStore) Available(ctx context.Context) bool {
	if err := p.pool.Ping(ctx); err != nil {
		p.log.Debug("Postgres state store unavailable", "err", err)
		return false
	}
	return true
}

func (p *PostgresStateStore) Name() string {
	return "postgres"
}

func (p *PostgresStateStore) Close() error {
	p.pool.Close()
	return nil
}
