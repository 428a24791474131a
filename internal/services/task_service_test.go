package services

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/taskflow-dev/taskflow-api/internal/models"
	"github.com/taskflow-dev/taskflow-api/internal/repository"
	"github.com/taskflow-dev/taskflow-api/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu    sync.Mutex
	notes []string
}

func (r *recordingNotifier) Enqueue(email, message string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, email+"|"+message)
	return true
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notes)
}

type taskServiceTestEnv struct {
	db       *gorm.DB
	service  *TaskService
	notifier *recordingNotifier
}

func setupTaskServiceEnv(t *testing.T) taskServiceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Project{}, &models.Task{})
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	service := NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewProjectRepository(db),
		notifier,
	)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return taskServiceTestEnv{db: db, service: service, notifier: notifier}
}

func (env taskServiceTestEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		Username:     email[:len(email)-len("@example.com")],
		PasswordHash: "hashedpassword",
		IsActive:     true,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env taskServiceTestEnv) createProject(t *testing.T, name string, ownerID uint64) *models.Project {
	t.Helper()
	project := &models.Project{Name: name, OwnerID: ownerID}
	require.NoError(t, env.db.Create(project).Error)
	return project
}

func TestTaskService_Create_SchedulesDueSoon(t *testing.T) {
	env := setupTaskServiceEnv(t)
	owner := env.createUser(t, "owner@example.com")

	due := time.Now().Add(2 * time.Hour)
	task, err := env.service.Create(owner, CreateTaskInput{
		Title:   "Ship release",
		DueDate: &due,
	})
	require.NoError(t, err)
	require.NotZero(t, task.ID)

	require.Equal(t, 1, env.notifier.count())
	require.Contains(t, env.notifier.notes[0], "owner@example.com|")
	require.Contains(t, env.notifier.notes[0], "Ship release")
}

func TestTaskService_Create_NoNotificationOutsideWindow(t *testing.T) {
	env := setupTaskServiceEnv(t)
	owner := env.createUser(t, "owner@example.com")

	farDue := time.Now().Add(48 * time.Hour)
	_, err := env.service.Create(owner, CreateTaskInput{Title: "Later", DueDate: &farDue})
	require.NoError(t, err)

	pastDue := time.Now().Add(-time.Hour)
	_, err = env.service.Create(owner, CreateTaskInput{Title: "Overdue", DueDate: &pastDue})
	require.NoError(t, err)

	_, err = env.service.Create(owner, CreateTaskInput{Title: "No due date"})
	require.NoError(t, err)

	require.Equal(t, 0, env.notifier.count())
}

func TestTaskService_Create_Defaults(t *testing.T) {
	env := setupTaskServiceEnv(t)
	owner := env.createUser(t, "owner@example.com")

	task, err := env.service.Create(owner, CreateTaskInput{Title: "Plain"})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusTodo, task.Status)
	require.Equal(t, models.TaskPriorityMedium, task.Priority)
}

func TestTaskService_Create_TitleLengthCountsCharacters(t *testing.T) {
	env := setupTaskServiceEnv(t)
	owner := env.createUser(t, "owner@example.com")

	// 100 characters but 300 bytes
	title := strings.Repeat("日", 100)
	task, err := env.service.Create(owner, CreateTaskInput{Title: title})
	require.NoError(t, err)
	require.Equal(t, title, task.Title)

	_, err = env.service.Create(owner, CreateTaskInput{Title: strings.Repeat("日", 101)})
	require.ErrorIs(t, err, ErrTitleTooLong)
}

func TestTaskService_Create_ForeignProjectRejected(t *testing.T) {
	env := setupTaskServiceEnv(t)
	owner := env.createUser(t, "owner@example.com")
	other := env.createUser(t, "other@example.com")
	project := env.createProject(t, "Other's project", other.ID)

	_, err := env.service.Create(owner, CreateTaskInput{Title: "Sneaky", ProjectID: &project.ID})
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestTaskService_Create_DeletedProjectStillLinkable(t *testing.T) {
	env := setupTaskServiceEnv(t)
	owner := env.createUser(t, "owner@example.com")
	project := env.createProject(t, "Gone", owner.ID)
	require.NoError(t, env.db.Model(project).Update("is_deleted", true).Error)

	task, err := env.service.Create(owner, CreateTaskInput{Title: "Orphan", ProjectID: &project.ID})
	require.NoError(t, err)
	require.NotNil(t, task.ProjectID)
}

func TestTaskService_Update_ForeignTaskForbidden(t *testing.T) {
	env := setupTaskServiceEnv(t)
	owner := env.createUser(t, "owner@example.com")
	intruder := env.createUser(t, "intruder@example.com")

	task, err := env.service.Create(owner, CreateTaskInput{Title: "Mine"})
	require.NoError(t, err)

	title := "Hacked"
	_, err = env.service.Update(task.ID, intruder, UpdateTaskInput{Title: &title})
	require.ErrorIs(t, err, ErrTaskForbidden)
}

func TestTaskService_Update_MissingTaskNotFound(t *testing.T) {
	env := setupTaskServiceEnv(t)
	owner := env.createUser(t, "owner@example.com")

	title := "Anything"
	_, err := env.service.Update(9999, owner, UpdateTaskInput{Title: &title})
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_Update_PartialLeavesOtherFields(t *testing.T) {
	env := setupTaskServiceEnv(t)
	owner := env.createUser(t, "owner@example.com")
	project := env.createProject(t, "Work", owner.ID)

	due := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
	task, err := env.service.Create(owner, CreateTaskInput{
		Title:     "Original",
		Status:    models.TaskStatusInProgress,
		Priority:  models.TaskPriorityHigh,
		DueDate:   &due,
		ProjectID: &project.ID,
	})
	require.NoError(t, err)

	title := "Renamed"
	updated, err := env.service.Update(task.ID, owner, UpdateTaskInput{Title: &title})
	require.NoError(t, err)

	require.Equal(t, "Renamed", updated.Title)
	require.Equal(t, models.TaskStatusInProgress, updated.Status)
	require.Equal(t, models.TaskPriorityHigh, updated.Priority)
	require.NotNil(t, updated.DueDate)
	require.True(t, updated.DueDate.Equal(due))
	require.NotNil(t, updated.ProjectID)
	require.Equal(t, project.ID, *updated.ProjectID)
}

func TestTaskService_Update_ClearDueDateAndProject(t *testing.T) {
	env := setupTaskServiceEnv(t)
	owner := env.createUser(t, "owner@example.com")
	project := env.createProject(t, "Work", owner.ID)

	due := time.Now().Add(72 * time.Hour)
	task, err := env.service.Create(owner, CreateTaskInput{
		Title:     "Scoped",
		DueDate:   &due,
		ProjectID: &project.ID,
	})
	require.NoError(t, err)

	updated, err := env.service.Update(task.ID, owner, UpdateTaskInput{
		ClearDueDate:   true,
		ClearProjectID: true,
	})
	require.NoError(t, err)
	require.Nil(t, updated.DueDate)
	require.Nil(t, updated.ProjectID)
}

func TestTaskService_Delete_SecondDeleteNotFound(t *testing.T) {
	env := setupTaskServiceEnv(t)
	owner := env.createUser(t, "owner@example.com")

	task, err := env.service.Create(owner, CreateTaskInput{Title: "Doomed"})
	require.NoError(t, err)

	require.NoError(t, env.service.Delete(task.ID, owner.ID))
	require.ErrorIs(t, env.service.Delete(task.ID, owner.ID), ErrTaskNotFound)
}

func TestTaskService_Delete_ForeignTaskNotFound(t *testing.T) {
	env := setupTaskServiceEnv(t)
	owner := env.createUser(t, "owner@example.com")
	intruder := env.createUser(t, "intruder@example.com")

	task, err := env.service.Create(owner, CreateTaskInput{Title: "Mine"})
	require.NoError(t, err)

	require.ErrorIs(t, env.service.Delete(task.ID, intruder.ID), ErrTaskNotFound)
}

func TestTaskService_List_IsolatedPerOwner(t *testing.T) {
	env := setupTaskServiceEnv(t)
	alice := env.createUser(t, "alice@example.com")
	bob := env.createUser(t, "bob@example.com")

	_, err := env.service.Create(alice, CreateTaskInput{Title: "Alice's"})
	require.NoError(t, err)
	_, err = env.service.Create(bob, CreateTaskInput{Title: "Bob's"})
	require.NoError(t, err)

	page := utils.PageParams{Skip: 0, Limit: 100}
	tasks, err := env.service.List(alice.ID, nil, page)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "Alice's", tasks[0].Title)
}

func TestTaskService_List_FilterByProjectAndSkipsDeleted(t *testing.T) {
	env := setupTaskServiceEnv(t)
	owner := env.createUser(t, "owner@example.com")
	project := env.createProject(t, "Work", owner.ID)

	inProject, err := env.service.Create(owner, CreateTaskInput{Title: "In project", ProjectID: &project.ID})
	require.NoError(t, err)
	_, err = env.service.Create(owner, CreateTaskInput{Title: "Loose"})
	require.NoError(t, err)
	deleted, err := env.service.Create(owner, CreateTaskInput{Title: "Deleted", ProjectID: &project.ID})
	require.NoError(t, err)
	require.NoError(t, env.service.Delete(deleted.ID, owner.ID))

	page := utils.PageParams{Skip: 0, Limit: 100}
	tasks, err := env.service.List(owner.ID, &project.ID, page)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, inProject.ID, tasks[0].ID)
}
