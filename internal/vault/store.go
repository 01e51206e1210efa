package vault

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// Store is the persistent relational target database: a table of
// encrypted-key records keyed by address, plus a secondary intelligence
// table for ancillary evidence (spec.md §6's persisted layout).
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pooled connection to the vault's backing Postgres
// instance, following the same pgxpool.New + Ping pattern this module's
// ambient stack uses throughout.
func Connect(ctx context.Context, connStr string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to vault database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("vault database ping failed: %w", err)
	}
	log.Println("vault: connected to target database")
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema creates the targets/intelligence tables if they do not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to execute vault schema migration: %w", err)
	}
	log.Println("vault: schema initialized")
	return nil
}

// UpsertTarget inserts t, replacing any existing row for the same address
// (idempotent — inserting the same address twice leaves exactly one row,
// with the latest metadata and encrypted fields winning).
func (s *Store) UpsertTarget(ctx context.Context, t Target) error {
	const sql = `
		INSERT INTO targets (address, vuln_class, first_seen_timestamp, metadata_json,
			status, encrypted_private_key, encryption_nonce, pbkdf2_salt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (address) DO UPDATE SET
			vuln_class = EXCLUDED.vuln_class,
			first_seen_timestamp = EXCLUDED.first_seen_timestamp,
			metadata_json = EXCLUDED.metadata_json,
			status = EXCLUDED.status,
			encrypted_private_key = EXCLUDED.encrypted_private_key,
			encryption_nonce = EXCLUDED.encryption_nonce,
			pbkdf2_salt = EXCLUDED.pbkdf2_salt;
	`
	_, err := s.pool.Exec(ctx, sql, t.Address, t.VulnClass, t.FirstSeenTimestamp, t.MetadataJSON,
		t.Status, t.EncryptedPrivateKey, t.EncryptionNonce, t.PBKDF2Salt)
	if err != nil {
		return fmt.Errorf("upserting target %s: %w", t.Address, err)
	}
	return nil
}

// UpsertTargetsBatch upserts many targets inside a single transaction —
// used by bulk-ingestion paths (e.g. brainwallet passphrase sweeps) so the
// bulk path costs a small constant factor over a single insert, not
// len(targets) round trips.
func (s *Store) UpsertTargetsBatch(ctx context.Context, targets []Target) error {
	if len(targets) == 0 {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning batch upsert transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const sql = `
		INSERT INTO targets (address, vuln_class, first_seen_timestamp, metadata_json,
			status, encrypted_private_key, encryption_nonce, pbkdf2_salt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (address) DO UPDATE SET
			vuln_class = EXCLUDED.vuln_class,
			first_seen_timestamp = EXCLUDED.first_seen_timestamp,
			metadata_json = EXCLUDED.metadata_json,
			status = EXCLUDED.status,
			encrypted_private_key = EXCLUDED.encrypted_private_key,
			encryption_nonce = EXCLUDED.encryption_nonce,
			pbkdf2_salt = EXCLUDED.pbkdf2_salt;
	`
	for _, t := range targets {
		if _, err := tx.Exec(ctx, sql, t.Address, t.VulnClass, t.FirstSeenTimestamp, t.MetadataJSON,
			t.Status, t.EncryptedPrivateKey, t.EncryptionNonce, t.PBKDF2Salt); err != nil {
			return fmt.Errorf("batch upserting target %s: %w", t.Address, err)
		}
	}
	return tx.Commit(ctx)
}

// GetTarget fetches a single target by address. Returns (Target{}, false,
// nil) if no row exists.
func (s *Store) GetTarget(ctx context.Context, address string) (Target, bool, error) {
	const sql = `
		SELECT address, vuln_class, first_seen_timestamp, metadata_json, status,
			encrypted_private_key, encryption_nonce, pbkdf2_salt, access_count, last_accessed
		FROM targets WHERE address = $1;
	`
	var t Target
	err := s.pool.QueryRow(ctx, sql, address).Scan(&t.Address, &t.VulnClass, &t.FirstSeenTimestamp,
		&t.MetadataJSON, &t.Status, &t.EncryptedPrivateKey, &t.EncryptionNonce, &t.PBKDF2Salt,
		&t.AccessCount, &t.LastAccessed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Target{}, false, nil
		}
		return Target{}, false, fmt.Errorf("fetching target %s: %w", address, err)
	}
	return t, true, nil
}

// QueryByClass lists targets of the given vulnerability class, paginated.
func (s *Store) QueryByClass(ctx context.Context, vulnClass string, limit, offset int) ([]Target, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	const sql = `
		SELECT address, vuln_class, first_seen_timestamp, metadata_json, status,
			encrypted_private_key, encryption_nonce, pbkdf2_salt, access_count, last_accessed
		FROM targets WHERE vuln_class = $1
		ORDER BY first_seen_timestamp DESC NULLS LAST
		LIMIT $2 OFFSET $3;
	`
	rows, err := s.pool.Query(ctx, sql, vulnClass, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying targets by class %s: %w", vulnClass, err)
	}
	defer rows.Close()

	var out []Target
	for rows.Next() {
		var t Target
		if err := rows.Scan(&t.Address, &t.VulnClass, &t.FirstSeenTimestamp, &t.MetadataJSON, &t.Status,
			&t.EncryptedPrivateKey, &t.EncryptionNonce, &t.PBKDF2Salt, &t.AccessCount, &t.LastAccessed); err != nil {
			return nil, fmt.Errorf("scanning target row: %w", err)
		}
		out = append(out, t)
	}
	return out, nil
}

// CountByClass reports how many targets carry vulnClass.
func (s *Store) CountByClass(ctx context.Context, vulnClass string) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM targets WHERE vuln_class = $1`, vulnClass).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting targets by class %s: %w", vulnClass, err)
	}
	return count, nil
}

// RecordAccess atomically increments access_count and sets last_accessed to
// nowUnix — the read-side bookkeeping spec.md's E2E-6 scenario checks.
func (s *Store) RecordAccess(ctx context.Context, address string, nowUnix int64) error {
	const sql = `UPDATE targets SET access_count = access_count + 1, last_accessed = $2 WHERE address = $1;`
	_, err := s.pool.Exec(ctx, sql, address, nowUnix)
	if err != nil {
		return fmt.Errorf("recording access for %s: %w", address, err)
	}
	return nil
}

// InsertIntel records an ancillary intelligence row.
func (s *Store) InsertIntel(ctx context.Context, rec IntelRecord) error {
	const sql = `INSERT INTO intelligence (intel_type, value, context, vuln_class) VALUES ($1, $2, $3, $4);`
	_, err := s.pool.Exec(ctx, sql, rec.IntelType, rec.Value, rec.Context, rec.VulnClass)
	if err != nil {
		return fmt.Errorf("inserting intelligence row: %w", err)
	}
	return nil
}
