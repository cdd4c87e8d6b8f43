package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id            BIGSERIAL    PRIMARY KEY,
  title         VARCHAR(255) NOT NULL,
  description   VARCHAR(1000),
  document_type VARCHAR(50)  NOT NULL,
  created_date  TIMESTAMPTZ  NOT NULL DEFAULT now(),
  modified_date TIMESTAMPTZ,
  created_by    VARCHAR(100) NOT NULL,
  modified_by   VARCHAR(100),
  is_active     BOOLEAN      NOT NULL DEFAULT TRUE,
  file_path     VARCHAR(500),
  file_size     BIGINT       CHECK (file_size IS NULL OR file_size >= 0)
);`,
	},
	{
		Name: "create_table_category_codes",
		SQL: `CREATE TABLE IF NOT EXISTS category_codes (
  category VARCHAR(100) PRIMARY KEY,
  seq      INT          NOT NULL DEFAULT 0
);`,
	},
	{
		Name: "create_index_documents_document_type",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_document_type ON documents (document_type);`,
	},
	{
		Name: "create_index_documents_created_by",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_by ON documents (created_by);`,
	},
	{
		Name: "create_index_documents_created_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_date ON documents (created_date);`,
	},
	{
		Name: "create_function_get_documents_by_type",
		SQL: `CREATE OR REPLACE FUNCTION get_documents_by_type(p_document_type VARCHAR)
RETURNS SETOF documents
LANGUAGE sql STABLE AS $$
  SELECT * FROM documents
  WHERE document_type = p_document_type AND is_active = TRUE
  ORDER BY created_date DESC;
$$;`,
	},
	{
		Name: "create_function_get_documents_by_user",
		SQL: `CREATE OR REPLACE FUNCTION get_documents_by_user(p_user_name VARCHAR)
RETURNS SETOF documents
LANGUAGE sql STABLE AS $$
  SELECT * FROM documents
  WHERE created_by = p_user_name AND is_active = TRUE
  ORDER BY created_date DESC;
$$;`,
	},
	{
		Name: "create_function_activate_deactivate_document",
		SQL: `CREATE OR REPLACE FUNCTION activate_deactivate_document(p_id BIGINT, p_is_active BOOLEAN)
RETURNS BIGINT
LANGUAGE plpgsql AS $$
DECLARE
  affected BIGINT;
BEGIN
  UPDATE documents
  SET is_active = p_is_active,
      modified_date = now()
  WHERE id = p_id;
  GET DIAGNOSTICS affected = ROW_COUNT;
  RETURN affected;
END;
$$;`,
	},
	{
		Name: "create_function_get_next_category_code",
		SQL: `CREATE OR REPLACE FUNCTION get_next_category_code(p_category VARCHAR)
RETURNS VARCHAR
LANGUAGE plpgsql AS $$
DECLARE
  next_seq INT;
BEGIN
  INSERT INTO category_codes (category, seq)
  VALUES (p_category, 1)
  ON CONFLICT (category) DO UPDATE SET seq = category_codes.seq + 1
  RETURNING seq INTO next_seq;
  RETURN upper(left(p_category, 3)) || '-' || lpad(next_seq::text, 4, '0');
END;
$$;`,
	},
}

// EnsureMigrated checks if the 'documents' table exists and runs the
// schema steps if it doesn't. The SQL routines are created with
// CREATE OR REPLACE, so re-running migrations is safe.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	if log == nil {
		log = slog.Default()
	}
	start := time.Now()

	log.InfoContext(ctx, "migration check starting", "db_host", dbHost)

	var exists bool
	query := "SELECT to_regclass('public.documents') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.ErrorContext(ctx, "migration sentinel check failed",
			"db_host", dbHost,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.InfoContext(ctx, "schema already exists, skipping migration",
			"db_host", dbHost,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.ErrorContext(ctx, "migration step failed",
				"migration_step", step.Name,
				"db_host", dbHost,
				"error", err,
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.InfoContext(ctx, "migration step applied",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.InfoContext(ctx, "migration complete",
		"db_host", dbHost,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}
