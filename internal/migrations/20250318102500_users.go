package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	m.addMigration(&migration{
		version: "20250318102500",
		up:      mig_20250318102500_users_up,
		down:    mig_20250318102500_users_down,
	})
}

func mig_20250318102500_users_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            username VARCHAR(40) NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            role INT NOT NULL CHECK (role IN (1, 2))
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
    `)
	if err != nil {
		return err
	}

	// Seed a bootstrap admin; sign-up only creates participants.
	password := "superadmin"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default password: %w", err)
	}

	_, err = tx.Exec(`
        INSERT INTO users (username, password_hash, role)
        VALUES ($1, $2, $3)
        ON CONFLICT (username) DO NOTHING;
    `, "superadmin", string(hashedPassword), 1)

	return err
}

func mig_20250318102500_users_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS users;`)
	return err
}
