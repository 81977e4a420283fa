package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/RobinWillson/authsite/internal/data/pgxutil"
	domainauth "github.com/RobinWillson/authsite/internal/domain/auth"
	"github.com/RobinWillson/authsite/internal/domain/model"
	apperrors "github.com/RobinWillson/authsite/internal/errors"
)

// UserRepo provides PostgreSQL operations for the user directory.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with the real clock.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a UserRepo with a custom clock (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

const userColumns = `id, provider_id, email, display_name, avatar_url, role, created_at, updated_at`

const (
	userGetByIDQuery = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`

	userGetByProviderIDQuery = `
		SELECT ` + userColumns + `
		FROM users
		WHERE provider_id = $1`

	userListQuery = `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at, id`

	// The ON CONFLICT arm refreshes display fields only; role and created_at
	// stay untouched, so repeated logins never reset an admin back to user.
	userUpsertQuery = `
		INSERT INTO users (id, provider_id, email, display_name, avatar_url, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'user', $6, $6)
		ON CONFLICT (provider_id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    avatar_url   = EXCLUDED.avatar_url,
		    updated_at   = EXCLUDED.updated_at
		RETURNING ` + userColumns

	userUpdateRoleQuery = `
		UPDATE users
		SET role = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + userColumns
)

// FindByID retrieves a user by internal ID.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.getByQuery(ctx, userGetByIDQuery, "get user by id", id)
}

// FindByProviderID retrieves a user by provider identity.
func (r *UserRepo) FindByProviderID(ctx context.Context, providerID string) (*model.User, error) {
	return r.getByQuery(ctx, userGetByProviderIDQuery, "get user by provider id", providerID)
}

// UpsertFromClaims creates the user on first login or refreshes the display
// fields on subsequent logins. The unique constraint on provider_id makes
// concurrent first logins collapse onto a single row; the losing insert
// takes the DO UPDATE arm instead of erroring.
func (r *UserRepo) UpsertFromClaims(ctx context.Context, claims domainauth.ProviderClaims) (*model.User, error) {
	if strings.TrimSpace(claims.ProviderID) == "" {
		return nil, apperrors.ValidationField("providerId", "provider id is required")
	}
	if strings.TrimSpace(claims.Email) == "" {
		return nil, apperrors.ValidationField("email", "email is required")
	}

	now := r.timeProvider.Now().UTC()
	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, userUpsertQuery,
			uuid.New().String(),
			strings.TrimSpace(claims.ProviderID),
			strings.ToLower(strings.TrimSpace(claims.Email)),
			claims.DisplayName,
			claims.AvatarURL,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		// A different account already owning this email surfaces here as a
		// unique violation on the email column.
		return nil, fmt.Errorf("upsert user: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// List retrieves all users ordered by creation time.
func (r *UserRepo) List(ctx context.Context) ([]*model.User, error) {
	var rowsOut []model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, userListQuery)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, fmt.Errorf("list users: %w", apperrors.MapDBError(err))
	}

	res := make([]*model.User, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// UpdateRole persists a new role for the given user.
func (r *UserRepo) UpdateRole(ctx context.Context, id string, role domainauth.Role) (*model.User, error) {
	if _, err := domainauth.ParseRole(string(role)); err != nil {
		return nil, apperrors.ValidationField("role", err.Error())
	}

	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, userUpdateRoleQuery, role, r.timeProvider.Now().UTC(), id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, fmt.Errorf("update user role: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

func (r *UserRepo) getByQuery(ctx context.Context, query, opName, arg string) (*model.User, error) {
	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, arg)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", opName, apperrors.MapDBError(err))
	}
	return &out, nil
}
