package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/archeomap/poi-content/pkg/poicontent"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements poicontent.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// schema holds the tables the repository expects. The upload_token table is a
// single row carrying the token high-water mark.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	name          VARCHAR(30) PRIMARY KEY,
	psw           VARCHAR(80) NOT NULL,
	email         VARCHAR(50) NOT NULL,
	creation_time BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS admins (
	name VARCHAR(30) PRIMARY KEY REFERENCES users(name)
);
CREATE TABLE IF NOT EXISTS content (
	id               BIGSERIAL PRIMARY KEY,
	poi              BIGINT NOT NULL,
	owner            VARCHAR(30) NOT NULL REFERENCES users(name),
	creation_time    BIGINT NOT NULL,
	comment          TEXT NOT NULL DEFAULT '',
	filename         VARCHAR(30) NOT NULL DEFAULT '',
	file_description VARCHAR(120) NOT NULL DEFAULT '',
	photo_thumb      TEXT NOT NULL DEFAULT '',
	status           VARCHAR(12) NOT NULL
);
CREATE TABLE IF NOT EXISTS likes (
	owner      VARCHAR(30) NOT NULL REFERENCES users(name),
	content_id BIGINT NOT NULL REFERENCES content(id),
	do_like    BOOLEAN NOT NULL,
	PRIMARY KEY (owner, content_id)
);
CREATE TABLE IF NOT EXISTS upload_token (
	id    SMALLINT PRIMARY KEY CHECK (id = 1),
	value BIGINT NOT NULL
);
`

// EnsureSchema creates the tables if they do not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if pgErr.TableName == "users" {
				return poicontent.ErrUserExists
			}
			return fmt.Errorf("duplicate entry in %s", operation)
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found in %s", operation)
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *poicontent.User) error {
	query := `
		INSERT INTO users (name, psw, email, creation_time)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query,
		user.Name, user.PasswordHash, user.Email, user.CreationTime)
	if err != nil {
		return r.handlePostgresError("create user", err)
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, name string) (*poicontent.User, error) {
	query := `
		SELECT name, psw, email, creation_time
		FROM users WHERE name = $1`

	var user poicontent.User
	err := r.db.QueryRow(ctx, query, name).Scan(
		&user.Name, &user.PasswordHash, &user.Email, &user.CreationTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, poicontent.ErrUserNotFound
		}
		return nil, r.handlePostgresError("get user", err)
	}
	return &user, nil
}

func (r *Repository) CreateAdmin(ctx context.Context, name string) error {
	query := `INSERT INTO admins (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`

	if _, err := r.db.Exec(ctx, query, name); err != nil {
		return r.handlePostgresError("create admin", err)
	}
	return nil
}

func (r *Repository) IsAdmin(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM admins WHERE name = $1)`

	var admin bool
	if err := r.db.QueryRow(ctx, query, name).Scan(&admin); err != nil {
		return false, r.handlePostgresError("is admin", err)
	}
	return admin, nil
}

// Content operations

func (r *Repository) CreateContent(ctx context.Context, content *poicontent.Content) error {
	query := `
		INSERT INTO content (
			poi, owner, creation_time, comment, filename,
			file_description, photo_thumb, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		content.POI, content.Owner, content.CreationTime, content.Comment,
		content.Filename, content.FileDescription, content.PhotoThumb,
		string(content.Status)).Scan(&content.ID)
	if err != nil {
		return r.handlePostgresError("create content", err)
	}
	return nil
}

func (r *Repository) GetContent(ctx context.Context, id int64) (*poicontent.Content, error) {
	query := `
		SELECT id, poi, owner, creation_time, comment, filename,
		       file_description, photo_thumb, status
		FROM content WHERE id = $1`

	return r.scanContent(r.db.QueryRow(ctx, query, id), "get content")
}

func (r *Repository) GetContentByPendingFilename(ctx context.Context, filename string) (*poicontent.Content, error) {
	query := `
		SELECT id, poi, owner, creation_time, comment, filename,
		       file_description, photo_thumb, status
		FROM content WHERE filename = $1 AND status = $2`

	return r.scanContent(
		r.db.QueryRow(ctx, query, filename, string(poicontent.ContentStatusAnnounced)),
		"get content by pending filename")
}

func (r *Repository) scanContent(row pgx.Row, operation string) (*poicontent.Content, error) {
	var content poicontent.Content
	var status string
	err := row.Scan(
		&content.ID, &content.POI, &content.Owner, &content.CreationTime,
		&content.Comment, &content.Filename, &content.FileDescription,
		&content.PhotoThumb, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, poicontent.ErrContentNotFound
		}
		return nil, r.handlePostgresError(operation, err)
	}
	content.Status = poicontent.ContentStatus(status)
	return &content, nil
}

func (r *Repository) UpdateContent(ctx context.Context, content *poicontent.Content) error {
	query := `
		UPDATE content SET
			comment = $2, filename = $3, file_description = $4,
			photo_thumb = $5, status = $6
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		content.ID, content.Comment, content.Filename,
		content.FileDescription, content.PhotoThumb, string(content.Status))
	if err != nil {
		return r.handlePostgresError("update content", err)
	}
	if tag.RowsAffected() == 0 {
		return poicontent.ErrContentNotFound
	}
	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM content WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete content", err)
	}
	if tag.RowsAffected() == 0 {
		return poicontent.ErrContentNotFound
	}
	return nil
}

func (r *Repository) ListContent(ctx context.Context, limit, offset int) ([]*poicontent.Content, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM content`).Scan(&total); err != nil {
		return nil, 0, r.handlePostgresError("count content", err)
	}

	query := `
		SELECT id, poi, owner, creation_time, comment, filename,
		       file_description, photo_thumb, status
		FROM content ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, r.handlePostgresError("list content", err)
	}
	defer rows.Close()

	var result []*poicontent.Content
	for rows.Next() {
		var content poicontent.Content
		var status string
		if err := rows.Scan(
			&content.ID, &content.POI, &content.Owner, &content.CreationTime,
			&content.Comment, &content.Filename, &content.FileDescription,
			&content.PhotoThumb, &status); err != nil {
			return nil, 0, r.handlePostgresError("list content", err)
		}
		content.Status = poicontent.ContentStatus(status)
		result = append(result, &content)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, r.handlePostgresError("list content", err)
	}

	return result, total, nil
}

// Like operations

func (r *Repository) UpsertLike(ctx context.Context, like *poicontent.Like) error {
	query := `
		INSERT INTO likes (owner, content_id, do_like)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner, content_id) DO UPDATE SET do_like = EXCLUDED.do_like`

	if _, err := r.db.Exec(ctx, query, like.User, like.ContentID, like.DoLike); err != nil {
		return r.handlePostgresError("upsert like", err)
	}
	return nil
}

func (r *Repository) DeleteLikesForContent(ctx context.Context, contentID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM likes WHERE content_id = $1`, contentID); err != nil {
		return r.handlePostgresError("delete likes", err)
	}
	return nil
}

func (r *Repository) TallyLikes(ctx context.Context, contentID int64) (poicontent.Tally, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE do_like),
			COUNT(*) FILTER (WHERE NOT do_like)
		FROM likes WHERE content_id = $1`

	var tally poicontent.Tally
	if err := r.db.QueryRow(ctx, query, contentID).Scan(&tally.Likes, &tally.Unlikes); err != nil {
		return poicontent.Tally{}, r.handlePostgresError("tally likes", err)
	}
	return tally, nil
}
