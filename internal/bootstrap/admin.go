// Package bootstrap holds explicit, idempotent deployment-time setup
// steps. Nothing here runs as an import side effect.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// EnsureDefaultAdmin provisions the initial privileged account if no
// user with that username exists yet. Returns true when the account was
// created on this call. A blank password disables seeding.
func EnsureDefaultAdmin(ctx context.Context, db *sql.DB, username, password, role string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	var one int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username=$1`, username).Scan(&one)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("lookup %q: %w", username, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return false, err
	}
	_, err = db.ExecContext(ctx, `INSERT INTO users (id,username,name,password_hash,role,department)
		VALUES ($1,$2,$3,$4,$5,'')`,
		uuid.NewString(), username, "Default Admin", string(hash), role)
	if err != nil {
		return false, fmt.Errorf("create %q: %w", username, err)
	}
	return true, nil
}
