package migrations

import (
	"github.com/jmoiron/sqlx"
)

func init() {
	m.addMigration(&migration{
		version: "20250318103200",
		up:      mig_20250318103200_tasks_up,
		down:    mig_20250318103200_tasks_down,
	})
}

func mig_20250318103200_tasks_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS tasks (
            id BIGSERIAL PRIMARY KEY,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            status INT NOT NULL DEFAULT 1 CHECK (status IN (1, 2, 3)),
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id);
    `)
	return err
}

func mig_20250318103200_tasks_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS tasks;`)
	return err
}
