package store

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/planflow/planboard-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *GormStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Document{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewGormStore(db)
}

func TestGormStore_AddWritesBackID(t *testing.T) {
	s := setupStore(t)

	id, err := s.Add("projects", models.Project{Name: "Website"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	snap, err := s.Load(Collection("projects"))
	require.NoError(t, err)
	require.Len(t, snap, 1)
	require.Equal(t, id, snap[0].ID)

	var m map[string]any
	require.NoError(t, json.Unmarshal(snap[0].Data, &m))
	require.Equal(t, id, m["id"])
	require.Equal(t, "Website", m["name"])
}

func TestGormStore_LoadFiltersByField(t *testing.T) {
	s := setupStore(t)

	_, err := s.Add("tasks", models.Task{Title: "a", ProjectID: "p1"})
	require.NoError(t, err)
	_, err = s.Add("tasks", models.Task{Title: "b", ProjectID: "p2"})
	require.NoError(t, err)

	snap, err := s.Load(Collection("tasks").Where("projectId", "p1"))
	require.NoError(t, err)
	require.Len(t, snap, 1)

	tasks := DecodeAll[models.Task](snap)
	require.Len(t, tasks, 1)
	require.Equal(t, "a", tasks[0].Title)
}

func TestGormStore_UpdateMergesFields(t *testing.T) {
	s := setupStore(t)

	id, err := s.Add("tasks", models.Task{Title: "a", ProjectID: "p1", Status: models.TaskStatusNotStarted})
	require.NoError(t, err)

	err = s.Update("tasks", id, map[string]any{
		"status":        "completed",
		"completedDate": "2024-04-05",
	})
	require.NoError(t, err)

	snap, err := s.Load(Collection("tasks"))
	require.NoError(t, err)
	tasks := DecodeAll[models.Task](snap)
	require.Len(t, tasks, 1)
	require.Equal(t, models.TaskStatusCompleted, tasks[0].Status)
	require.Equal(t, "2024-04-05", tasks[0].CompletedDate)
	require.Equal(t, "a", tasks[0].Title)
}

func TestGormStore_UpdateRemovesNilFields(t *testing.T) {
	s := setupStore(t)

	id, err := s.Add("tasks", models.Task{Title: "a", ProjectID: "p1", CompletedDate: "2024-04-05"})
	require.NoError(t, err)

	require.NoError(t, s.Update("tasks", id, map[string]any{"completedDate": nil}))

	snap, err := s.Load(Collection("tasks"))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(snap[0].Data, &m))
	_, exists := m["completedDate"]
	require.False(t, exists)
}

func TestGormStore_UpdateMissingIsNoOp(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.Update("tasks", "missing", map[string]any{"title": "x"}))
}

func TestGormStore_DeleteMissingIsNoOp(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.Delete("tasks", "missing"))
}

func TestGormStore_SetCreatesAndMerges(t *testing.T) {
	s := setupStore(t)

	require.NoError(t, s.Set("users", "7", map[string]any{"uid": "7", "email": "a@example.com"}))
	require.NoError(t, s.Set("users", "7", map[string]any{"email": "b@example.com"}))

	snap, err := s.Load(Collection("users"))
	require.NoError(t, err)
	require.Len(t, snap, 1)

	docs := DecodeAll[models.UserDoc](snap)
	require.Equal(t, "7", docs[0].UID)
	require.Equal(t, "b@example.com", docs[0].Email)
}

func TestGormStore_SubscribeDeliversInitialAndUpdates(t *testing.T) {
	s := setupStore(t)

	_, err := s.Add("projects", models.Project{Name: "first"})
	require.NoError(t, err)

	var mu sync.Mutex
	var snapshots []Snapshot
	cancel, err := s.Subscribe(Collection("projects"), func(snap Snapshot) {
		mu.Lock()
		snapshots = append(snapshots, snap)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer cancel()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(snapshots) == 1 && len(snapshots[0]) == 1
	}, time.Second, 10*time.Millisecond)

	_, err = s.Add("projects", models.Project{Name: "second"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		last := snapshots[len(snapshots)-1]
		return len(last) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestGormStore_CancelStopsDelivery(t *testing.T) {
	s := setupStore(t)

	var mu sync.Mutex
	count := 0
	cancel, err := s.Subscribe(Collection("projects"), func(Snapshot) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	}, time.Second, 10*time.Millisecond)

	cancel()

	_, err = s.Add("projects", models.Project{Name: "after cancel"})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	require.Equal(t, 1, count)
	mu.Unlock()
}

func TestGormStore_SubscribeScopedToCollection(t *testing.T) {
	s := setupStore(t)

	var mu sync.Mutex
	count := 0
	cancel, err := s.Subscribe(Collection("projects"), func(Snapshot) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	require.NoError(t, err)
	defer cancel()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	}, time.Second, 10*time.Millisecond)

	_, err = s.Add("tasks", models.Task{Title: "other collection"})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	require.Equal(t, 1, count)
	mu.Unlock()
}

func TestGormStore_ConcurrentWritersKeepSnapshotOrder(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Document{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	s := NewGormStore(db)

	var mu sync.Mutex
	var sizes []int
	cancel, err := s.Subscribe(Collection("projects"), func(snap Snapshot) {
		mu.Lock()
		sizes = append(sizes, len(snap))
		mu.Unlock()
	})
	require.NoError(t, err)
	defer cancel()

	const writers = 4
	const perWriter = 5

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				if _, err := s.Add("projects", models.Project{Name: fmt.Sprintf("p%d-%d", w, i)}); err != nil {
					t.Error(err)
				}
			}
		}(w)
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(sizes) > 0 && sizes[len(sizes)-1] == writers*perWriter
	}, 2*time.Second, 10*time.Millisecond)

	// Every snapshot reflects one more insert than the last, so any
	// shrink means two writers enqueued out of mutation order.
	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(sizes); i++ {
		require.GreaterOrEqual(t, sizes[i], sizes[i-1])
	}
}

func TestGormStore_LoadPropagatesDBError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT").WillReturnError(gorm.ErrInvalidDB)

	s := NewGormStore(db)
	_, err = s.Load(Collection("projects"))
	require.Error(t, err)
}
