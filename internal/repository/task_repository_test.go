package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-dev/taskflow-api/internal/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

var taskColumns = []string{
	"id", "title", "description", "status", "priority",
	"due_date", "project_id", "owner_id", "is_deleted",
}

// Every visible-task query must carry the owner + soft-delete filter.
func TestGormTaskRepository_FindVisible_ScopesToOwner(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTaskRepository(db)

	rows := sqlmock.NewRows(taskColumns).
		AddRow(7, "Scoped", "", "todo", "medium", nil, nil, 3, false)
	mock.ExpectQuery(`owner_id = \$\d+ AND is_deleted = \$\d+`).
		WillReturnRows(rows)

	task, err := repo.FindVisible(7, 3)
	require.NoError(t, err)
	require.EqualValues(t, 7, task.ID)
	require.EqualValues(t, 3, task.OwnerID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_FindVisible_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(`owner_id = \$\d+ AND is_deleted = \$\d+`).
		WillReturnRows(sqlmock.NewRows(taskColumns))

	_, err := repo.FindVisible(7, 3)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_FindNotDeleted_OmitsOwnerFilter(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTaskRepository(db)

	rows := sqlmock.NewRows(taskColumns).
		AddRow(7, "Anyone's", "", "todo", "medium", nil, nil, 42, false)
	mock.ExpectQuery(`is_deleted = \$\d+`).
		WillReturnRows(rows)

	task, err := repo.FindNotDeleted(7)
	require.NoError(t, err)
	require.EqualValues(t, 42, task.OwnerID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_ListVisible_ScopesToOwner(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTaskRepository(db)

	rows := sqlmock.NewRows(taskColumns).
		AddRow(1, "First", "", "todo", "medium", nil, nil, 3, false).
		AddRow(2, "Second", "", "done", "high", nil, nil, 3, false)
	mock.ExpectQuery(`owner_id = \$\d+ AND is_deleted = \$\d+`).
		WillReturnRows(rows)

	tasks, err := repo.ListVisible(3, nil, utils.PageParams{Skip: 0, Limit: 100})
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_ListVisible_ProjectFilter(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTaskRepository(db)

	rows := sqlmock.NewRows(taskColumns).
		AddRow(1, "In project", "", "todo", "medium", nil, 5, 3, false)
	mock.ExpectQuery(`project_id = \$\d+`).
		WillReturnRows(rows)

	projectID := uint64(5)
	tasks, err := repo.ListVisible(3, &projectID, utils.PageParams{Skip: 0, Limit: 100})
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	require.NoError(t, mock.ExpectationsWereMet())
}
