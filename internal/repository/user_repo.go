package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"artschool-backend/internal/model"
	"artschool-backend/pkg/apierror"
)

const uniqueViolationCode = "23505"

const userColumns = `id, username, password_hash, first_name, last_name,
	is_admin, registered_at, oauth_provider, oauth_id, oauth_email`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	var isAdmin int16
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName,
		&isAdmin, &u.RegisteredAt, &u.OAuthProvider, &u.OAuthID, &u.OAuthEmail)
	if err != nil {
		return model.User{}, err
	}

	u.IsAdmin = isAdmin != 0
	return u, nil
}

func adminFlag(isAdmin bool) int16 {
	if isAdmin {
		return 1
	}
	return 0
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apierror.NotFound("user not found", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, strings.TrimSpace(username)))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apierror.NotFound("user not found", username)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByOAuth(ctx context.Context, provider string, externalID string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE oauth_provider = $1 AND oauth_id = $2`,
		provider, externalID))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apierror.NotFound("user not found", provider+":"+externalID)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by oauth identity: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByOAuthEmail(ctx context.Context, email string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE oauth_email = $1 AND oauth_email <> ''`, email))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apierror.NotFound("user not found", email)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by oauth email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`,
		strings.TrimSpace(username)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) ExistsByUsernameExcluding(ctx context.Context, username string, excludeID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND id <> $2)`,
		strings.TrimSpace(username), excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username exists excluding: %w", err)
	}
	return exists, nil
}

// Create inserts the user and returns the assigned id. A username collision
// that slips past the service-level pre-check surfaces as Conflict via the
// unique constraint.
func (r *UserRepository) Create(ctx context.Context, u model.User) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, first_name, last_name,
		                    is_admin, registered_at, oauth_provider, oauth_id, oauth_email)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		u.Username, u.PasswordHash, u.FirstName, u.LastName,
		adminFlag(u.IsAdmin), u.RegisteredAt, u.OAuthProvider, u.OAuthID, u.OAuthEmail).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apierror.Conflict("username already taken", u.Username)
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

func (r *UserRepository) Update(ctx context.Context, u model.User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET username = $2, first_name = $3, last_name = $4, password_hash = $5
		 WHERE id = $1`,
		u.ID, u.Username, u.FirstName, u.LastName, u.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return apierror.Conflict("username already taken", u.Username)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("user not found", strconv.FormatInt(u.ID, 10))
	}
	return nil
}

func (r *UserRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_admin = $2 WHERE id = $1`, id, adminFlag(isAdmin))
	if err != nil {
		return fmt.Errorf("set admin flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("user not found", strconv.FormatInt(id, 10))
	}
	return nil
}

// Delete removes the user; progress records go with it via the FK cascade.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("user not found", strconv.FormatInt(id, 10))
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Counts(ctx context.Context) (total int, admins int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_admin <> 0) FROM users`).
		Scan(&total, &admins)
	if err != nil {
		return 0, 0, fmt.Errorf("count users: %w", err)
	}
	return total, admins, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
