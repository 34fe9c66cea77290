package repositories_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"taskapi/internal/database"
	"taskapi/internal/models"
	"taskapi/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type backend struct {
	name  string
	users func(t *testing.T) repositories.UserRepository
	tasks func(t *testing.T) repositories.TaskRepository
}

// openTestDB opens a private in-memory SQLite database named after a fresh uuid.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func backends() []backend {
	return []backend{
		{
			name: "memory",
			users: func(t *testing.T) repositories.UserRepository {
				return repositories.NewMemoryUserRepository()
			},
			tasks: func(t *testing.T) repositories.TaskRepository {
				return repositories.NewMemoryTaskRepository()
			},
		},
		{
			name: "sqlite",
			users: func(t *testing.T) repositories.UserRepository {
				return repositories.NewGORMUserRepository(openTestDB(t))
			},
			tasks: func(t *testing.T) repositories.TaskRepository {
				return repositories.NewGORMTaskRepository(openTestDB(t))
			},
		},
	}
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func titles(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}

func createTask(t *testing.T, repo repositories.TaskRepository, ownerID uint, title string) models.Task {
	t.Helper()
	task := models.Task{OwnerID: ownerID, Title: title, Description: title + " description"}
	require.NoError(t, repo.Create(&task))
	require.NotZero(t, task.ID)
	return task
}

func TestUserRepository(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			repo := b.users(t)

			alice := &models.User{Username: "alice", Email: "a@x.com", PasswordHash: "hash"}
			require.NoError(t, repo.Create(alice))
			assert.NotZero(t, alice.ID)

			// Same username with different fields is still a duplicate.
			err := repo.Create(&models.User{Username: "alice", Email: "other@x.com", PasswordHash: "other"})
			assert.ErrorIs(t, err, repositories.ErrDuplicateUsername)

			// Usernames are case-sensitive.
			bigAlice := &models.User{Username: "Alice", Email: "A@x.com", PasswordHash: "hash"}
			require.NoError(t, repo.Create(bigAlice))
			assert.NotEqual(t, alice.ID, bigAlice.ID)

			found, err := repo.GetByUsername("alice")
			require.NoError(t, err)
			assert.Equal(t, alice.ID, found.ID)
			assert.Equal(t, "a@x.com", found.Email)

			byID, err := repo.GetByID(bigAlice.ID)
			require.NoError(t, err)
			assert.Equal(t, "Alice", byID.Username)

			_, err = repo.GetByUsername("bob")
			assert.ErrorIs(t, err, repositories.ErrNotFound)
			_, err = repo.GetByID(9999)
			assert.ErrorIs(t, err, repositories.ErrNotFound)

			require.NoError(t, repo.Clear())
			_, err = repo.GetByUsername("alice")
			assert.ErrorIs(t, err, repositories.ErrNotFound)
			assert.NoError(t, repo.Create(&models.User{Username: "alice", Email: "a@x.com", PasswordHash: "hash"}))
		})
	}
}

func TestTaskRepository_CreateAndGet(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			repo := b.tasks(t)

			created := createTask(t, repo, 1, "Buy milk")

			got, err := repo.GetByID(1, created.ID)
			require.NoError(t, err)
			assert.Equal(t, "Buy milk", got.Title)
			assert.Equal(t, "Buy milk description", got.Description)
			assert.False(t, got.Completed)
			assert.Equal(t, uint(1), got.OwnerID)

			// Another owner sees nothing, exactly as for a missing id.
			_, err = repo.GetByID(2, created.ID)
			assert.ErrorIs(t, err, repositories.ErrNotFound)
			_, err = repo.GetByID(1, created.ID+100)
			assert.ErrorIs(t, err, repositories.ErrNotFound)
		})
	}
}

func TestRepositories_LongValues(t *testing.T) {
	longName := strings.Repeat("u", 101)
	longTitle := strings.Repeat("t", 1000)

	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			users := b.users(t)
			user := &models.User{Username: longName, Email: strings.Repeat("e", 300) + "@x.com", PasswordHash: "hash"}
			require.NoError(t, users.Create(user))
			found, err := users.GetByUsername(longName)
			require.NoError(t, err)
			assert.Equal(t, user.ID, found.ID)

			tasks := b.tasks(t)
			task := &models.Task{OwnerID: user.ID, Title: longTitle, Description: strings.Repeat("d", 5000)}
			require.NoError(t, tasks.Create(task))
			got, err := tasks.GetByID(user.ID, task.ID)
			require.NoError(t, err)
			assert.Equal(t, longTitle, got.Title)
			assert.Len(t, got.Description, 5000)
		})
	}
}

func TestTaskRepository_List(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			repo := b.tasks(t)

			createTask(t, repo, 1, "Buy milk")
			bread := createTask(t, repo, 1, "Buy bread")
			createTask(t, repo, 2, "Buy milk for Bob")
			createTask(t, repo, 1, "Call mom")
			_, err := repo.Update(1, bread.ID, models.TaskPatch{Completed: boolPtr(true)})
			require.NoError(t, err)

			all, err := repo.List(1, models.TaskFilter{})
			require.NoError(t, err)
			assert.Equal(t, []string{"Buy milk", "Buy bread", "Call mom"}, titles(all))

			done, err := repo.List(1, models.TaskFilter{Completed: boolPtr(true)})
			require.NoError(t, err)
			assert.Equal(t, []string{"Buy bread"}, titles(done))

			open, err := repo.List(1, models.TaskFilter{Completed: boolPtr(false)})
			require.NoError(t, err)
			assert.Equal(t, []string{"Buy milk", "Call mom"}, titles(open))

			search, err := repo.List(1, models.TaskFilter{Search: "Buy"})
			require.NoError(t, err)
			assert.Equal(t, []string{"Buy milk", "Buy bread"}, titles(search))

			// Substring match is case-sensitive.
			lower, err := repo.List(1, models.TaskFilter{Search: "buy"})
			require.NoError(t, err)
			assert.Empty(t, lower)

			both, err := repo.List(1, models.TaskFilter{Completed: boolPtr(false), Search: "Buy"})
			require.NoError(t, err)
			assert.Equal(t, []string{"Buy milk"}, titles(both))

			none, err := repo.List(3, models.TaskFilter{})
			require.NoError(t, err)
			assert.NotNil(t, none)
			assert.Empty(t, none)
		})
	}
}

func TestTaskRepository_Update(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			repo := b.tasks(t)
			task := createTask(t, repo, 1, "Buy milk")

			updated, err := repo.Update(1, task.ID, models.TaskPatch{Completed: boolPtr(true)})
			require.NoError(t, err)
			assert.True(t, updated.Completed)
			assert.Equal(t, "Buy milk", updated.Title)
			assert.Equal(t, "Buy milk description", updated.Description)

			updated, err = repo.Update(1, task.ID, models.TaskPatch{Title: strPtr("Buy oat milk"), Description: strPtr(""), Completed: boolPtr(false)})
			require.NoError(t, err)
			assert.Equal(t, "Buy oat milk", updated.Title)
			assert.Empty(t, updated.Description)
			assert.False(t, updated.Completed)

			_, err = repo.Update(2, task.ID, models.TaskPatch{Title: strPtr("hijacked")})
			assert.ErrorIs(t, err, repositories.ErrNotFound)

			got, err := repo.GetByID(1, task.ID)
			require.NoError(t, err)
			assert.Equal(t, "Buy oat milk", got.Title)
		})
	}
}

func TestTaskRepository_Delete(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			repo := b.tasks(t)
			task := createTask(t, repo, 1, "Buy milk")

			assert.ErrorIs(t, repo.Delete(2, task.ID), repositories.ErrNotFound)
			_, err := repo.GetByID(1, task.ID)
			require.NoError(t, err, "foreign delete must leave the task in place")

			require.NoError(t, repo.Delete(1, task.ID))
			_, err = repo.GetByID(1, task.ID)
			assert.ErrorIs(t, err, repositories.ErrNotFound)
			assert.ErrorIs(t, repo.Delete(1, task.ID), repositories.ErrNotFound)

			// Ids are not handed out again after deletion or a clear.
			next := createTask(t, repo, 1, "Buy bread")
			assert.Greater(t, next.ID, task.ID)
			require.NoError(t, repo.Clear())
			afterClear := createTask(t, repo, 1, "Call mom")
			assert.Greater(t, afterClear.ID, next.ID)

			all, err := repo.List(1, models.TaskFilter{})
			require.NoError(t, err)
			assert.Equal(t, []string{"Call mom"}, titles(all))
		})
	}
}

func TestMemoryTaskRepository_ConcurrentCreate(t *testing.T) {
	repo := repositories.NewMemoryTaskRepository()

	const workers, perWorker = 16, 50
	ids := make(chan uint, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(owner uint) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				task := models.Task{OwnerID: owner, Title: fmt.Sprintf("task %d", i)}
				if err := repo.Create(&task); err != nil {
					t.Errorf("create failed: %v", err)
					return
				}
				ids <- task.ID
			}
		}(uint(w + 1))
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint]bool, workers*perWorker)
	for id := range ids {
		assert.False(t, seen[id], "id %d assigned twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers*perWorker)
}

func TestMemoryUserRepository_ConcurrentRegistration(t *testing.T) {
	repo := repositories.NewMemoryUserRepository()

	const attempts = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Create(&models.User{Username: "alice", PasswordHash: "hash"}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, succeeded)
}
