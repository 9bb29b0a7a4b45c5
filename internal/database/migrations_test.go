package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupMockMySQL(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

// MySQL's default utf8mb4 collations compare case-insensitively, which would
// make "alice" and "Alice" the same username. The column must be rebuilt
// with a binary collation.
func TestEnforceUsernameCollation_AltersCaseInsensitiveColumn(t *testing.T) {
	db, mock := setupMockMySQL(t)

	mock.ExpectQuery("SELECT collation_name FROM information_schema.columns").
		WillReturnRows(sqlmock.NewRows([]string{"collation_name"}).AddRow("utf8mb4_0900_ai_ci"))
	mock.ExpectExec("ALTER TABLE users MODIFY username VARCHAR\\(80\\) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, EnforceUsernameCollation(db))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnforceUsernameCollation_SkipsBinaryColumn(t *testing.T) {
	db, mock := setupMockMySQL(t)

	mock.ExpectQuery("SELECT collation_name FROM information_schema.columns").
		WillReturnRows(sqlmock.NewRows([]string{"collation_name"}).AddRow("utf8mb4_bin"))

	require.NoError(t, EnforceUsernameCollation(db))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnforceUsernameCollation_NoopOffMySQL(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, EnforceUsernameCollation(db))
}
