package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamtrack/backend/internal/models"
)

// Sentinel errors the handlers translate into HTTP statuses.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// PostgresStore handles user, project and file-metadata CRUD against
// PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the relational schema if it doesn't exist. Statements run
// one at a time: pgx's extended protocol rejects multi-statement strings.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id          BIGSERIAL PRIMARY KEY,
			name        VARCHAR(100) UNIQUE NOT NULL,
			description TEXT         NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id         BIGSERIAL PRIMARY KEY,
			username   VARCHAR(100) UNIQUE NOT NULL,
			first_name VARCHAR(100) NOT NULL DEFAULT '',
			last_name  VARCHAR(100) NOT NULL DEFAULT '',
			email      VARCHAR(255) NOT NULL,
			phone      VARCHAR(50)  NOT NULL DEFAULT '',
			position   VARCHAR(50)  NOT NULL DEFAULT '',
			password   VARCHAR(255) NOT NULL,
			project_id BIGINT       REFERENCES projects(id),
			last_login TIMESTAMPTZ,
			created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS project_files (
			id           BIGSERIAL PRIMARY KEY,
			name         VARCHAR(255) NOT NULL,
			object_key   VARCHAR(255) UNIQUE NOT NULL,
			content_type VARCHAR(100) NOT NULL DEFAULT '',
			size         BIGINT       NOT NULL DEFAULT 0,
			uploaded_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS project_file_links (
			project_id BIGINT NOT NULL REFERENCES projects(id),
			file_id    BIGINT NOT NULL REFERENCES project_files(id),
			PRIMARY KEY (project_id, file_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// ── Users ────────────────────────────────────────────────────

const userColumns = `u.id, u.username, u.first_name, u.last_name, u.email, u.phone,
	u.position, u.project_id, COALESCE(p.name, ''), u.last_login, u.created_at`

func (s *PostgresStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, first_name, last_name, email, phone, position, password, project_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		u.Username, u.FirstName, u.LastName, u.Email, u.Phone, u.Position, u.Password, u.ProjectID,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users u LEFT JOIN projects p ON p.id = u.project_id
		 WHERE u.id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.listUsers(ctx,
		`SELECT `+userColumns+`
		 FROM users u LEFT JOIN projects p ON p.id = u.project_id
		 ORDER BY u.id`)
}

func (s *PostgresStore) ListUsersByProject(ctx context.Context, projectID int64) ([]models.User, error) {
	return s.listUsers(ctx,
		`SELECT `+userColumns+`
		 FROM users u LEFT JOIN projects p ON p.id = u.project_id
		 WHERE u.project_id = $1
		 ORDER BY u.id`, projectID)
}

func (s *PostgresStore) listUsers(ctx context.Context, query string, args ...interface{}) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email, &u.Phone,
		&u.Position, &u.ProjectID, &u.ProjectName, &u.LastLogin, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ── Projects ─────────────────────────────────────────────────

const projectColumns = `p.id, p.name, p.description, p.created_at,
	(SELECT COUNT(*) FROM project_file_links l WHERE l.project_id = p.id)`

func (s *PostgresStore) CreateProject(ctx context.Context, name, description string) (*models.Project, error) {
	p := models.Project{Name: name, Description: description}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO projects (name, description)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		name, description,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) GetProjectByID(ctx context.Context, id int64) (*models.Project, error) {
	return s.getProject(ctx, `SELECT `+projectColumns+` FROM projects p WHERE p.id = $1`, id)
}

func (s *PostgresStore) GetProjectByName(ctx context.Context, name string) (*models.Project, error) {
	return s.getProject(ctx, `SELECT `+projectColumns+` FROM projects p WHERE p.name = $1`, name)
}

func (s *PostgresStore) getProject(ctx context.Context, query string, arg interface{}) (*models.Project, error) {
	var p models.Project
	err := s.pool.QueryRow(ctx, query, arg).
		Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.FileCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects p ORDER BY p.name DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.FileCount); err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ── Project files ────────────────────────────────────────────

// CreateProjectFile inserts the metadata row and its project link in one
// transaction, so a file never exists unattached.
func (s *PostgresStore) CreateProjectFile(ctx context.Context, projectID int64, f *models.ProjectFile) (*models.ProjectFile, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO project_files (name, object_key, content_type, size)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, uploaded_at`,
		f.Name, f.ObjectKey, f.ContentType, f.Size,
	).Scan(&f.ID, &f.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO project_file_links (project_id, file_id) VALUES ($1, $2)`,
		projectID, f.ID,
	); err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("link file: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	return f, nil
}

func (s *PostgresStore) GetProjectFileByID(ctx context.Context, id int64) (*models.ProjectFile, error) {
	var f models.ProjectFile
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, object_key, content_type, size, uploaded_at
		 FROM project_files WHERE id = $1`, id,
	).Scan(&f.ID, &f.Name, &f.ObjectKey, &f.ContentType, &f.Size, &f.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	return &f, nil
}

func (s *PostgresStore) ListProjectFiles(ctx context.Context) ([]models.ProjectFile, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, object_key, content_type, size, uploaded_at
		 FROM project_files ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var out []models.ProjectFile
	for rows.Next() {
		var f models.ProjectFile
		if err := rows.Scan(&f.ID, &f.Name, &f.ObjectKey, &f.ContentType, &f.Size, &f.UploadedAt); err != nil {
			return nil, fmt.Errorf("list files: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
