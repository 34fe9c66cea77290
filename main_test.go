package main

import (
	"fmt"
	"testing"

	"taskapi/internal/config"
	"taskapi/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStores(t *testing.T) {
	for _, driver := range []string{config.StorageMemory, config.StorageSQLite} {
		t.Run(driver, func(t *testing.T) {
			cfg := config.Config{
				StorageDriver: driver,
				SQLiteDSN:     fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
			}
			st, err := newStores(cfg)
			require.NoError(t, err)
			defer func() { assert.NoError(t, st.close()) }()

			user := &models.User{Username: "alice", Email: "a@x.com", PasswordHash: "hash"}
			require.NoError(t, st.users.Create(user))

			task := &models.Task{OwnerID: user.ID, Title: "Buy milk"}
			require.NoError(t, st.tasks.Create(task))

			got, err := st.tasks.GetByID(user.ID, task.ID)
			require.NoError(t, err)
			assert.Equal(t, "Buy milk", got.Title)
		})
	}
}

func TestNewStores_UnknownDriver(t *testing.T) {
	_, err := newStores(config.Config{StorageDriver: "postgres"})
	assert.ErrorContains(t, err, "unsupported storage driver")
}

func TestLogTaskEvent(t *testing.T) {
	event := models.NewTaskEvent(models.TaskCreated, models.Task{ID: 1, OwnerID: 1, Title: "Buy milk"})
	assert.NoError(t, logTaskEvent(event))
}
