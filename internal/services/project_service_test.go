package services

import (
	"testing"

	"github.com/planflow/planboard-api/internal/constants"
	"github.com/planflow/planboard-api/internal/models"
	"github.com/planflow/planboard-api/internal/store"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPlanService(t *testing.T) (*PlanService, *store.GormStore) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Document{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	s := store.NewGormStore(db)
	return NewPlanService(s), s
}

func validProject() models.Project {
	return models.Project{Name: "Website", StartDate: "2024-04-01", EndDate: "2024-04-10"}
}

func validTask() models.Task {
	return models.Task{Title: "Design", StartDate: "2024-04-02", EndDate: "2024-04-05"}
}

func TestPlanService_CreateProjectValidation(t *testing.T) {
	svc, _ := setupPlanService(t)

	p := validProject()
	p.Name = "  "
	_, err := svc.CreateProject(p)
	require.ErrorIs(t, err, ErrNameRequired)

	p = validProject()
	p.EndDate = ""
	_, err = svc.CreateProject(p)
	require.ErrorIs(t, err, ErrDatesRequired)

	p = validProject()
	p.EndDate = "2024-03-01"
	_, err = svc.CreateProject(p)
	require.ErrorIs(t, err, ErrEndBeforeStart)

	id, err := svc.CreateProject(validProject())
	require.NoError(t, err)
	require.NotEmpty(t, id)
}

func TestPlanService_CreateTaskValidation(t *testing.T) {
	svc, st := setupPlanService(t)

	projectID, err := svc.CreateProject(validProject())
	require.NoError(t, err)

	task := validTask()
	task.Title = ""
	_, err = svc.CreateTask(projectID, task)
	require.ErrorIs(t, err, ErrTitleRequired)

	task = validTask()
	task.CompletedDate = "2024-04-09"
	_, err = svc.CreateTask(projectID, task)
	require.ErrorIs(t, err, ErrCompletedAfterEnd)

	task = validTask()
	task.Status = models.TaskStatusCompleted
	_, err = svc.CreateTask(projectID, task)
	require.ErrorIs(t, err, ErrCompletedDateRequired)

	id, err := svc.CreateTask(projectID, validTask())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	snap, err := st.Load(store.Collection(constants.CollectionTasks).Where("projectId", projectID))
	require.NoError(t, err)
	tasks := store.DecodeAll[models.Task](snap)
	require.Len(t, tasks, 1)
	require.Equal(t, models.TaskStatusNotStarted, tasks[0].Status)
}

func TestPlanService_CompletedDateImpliesCompletedStatus(t *testing.T) {
	svc, st := setupPlanService(t)

	projectID, err := svc.CreateProject(validProject())
	require.NoError(t, err)

	task := validTask()
	task.Status = models.TaskStatusInProgress
	task.CompletedDate = "2024-04-04"
	_, err = svc.CreateTask(projectID, task)
	require.NoError(t, err)

	snap, err := st.Load(store.Collection(constants.CollectionTasks))
	require.NoError(t, err)
	tasks := store.DecodeAll[models.Task](snap)
	require.Equal(t, models.TaskStatusCompleted, tasks[0].Status)
}

func TestPlanService_UpdateTaskStatus(t *testing.T) {
	svc, st := setupPlanService(t)

	projectID, err := svc.CreateProject(validProject())
	require.NoError(t, err)
	taskID, err := svc.CreateTask(projectID, validTask())
	require.NoError(t, err)

	err = svc.UpdateTaskStatus(taskID, models.TaskStatusCompleted, "")
	require.ErrorIs(t, err, ErrCompletedDateRequired)

	err = svc.UpdateTaskStatus(taskID, models.TaskStatusCompleted, "2024-04-09")
	require.ErrorIs(t, err, ErrCompletedAfterEnd)

	require.NoError(t, svc.UpdateTaskStatus(taskID, models.TaskStatusCompleted, "2024-04-04"))

	snap, err := st.Load(store.Collection(constants.CollectionTasks))
	require.NoError(t, err)
	tasks := store.DecodeAll[models.Task](snap)
	require.Equal(t, models.TaskStatusCompleted, tasks[0].Status)
	require.Equal(t, "2024-04-04", tasks[0].CompletedDate)

	// Leaving completed clears the completion date.
	require.NoError(t, svc.UpdateTaskStatus(taskID, models.TaskStatusInProgress, ""))
	snap, err = st.Load(store.Collection(constants.CollectionTasks))
	require.NoError(t, err)
	tasks = store.DecodeAll[models.Task](snap)
	require.Equal(t, models.TaskStatusInProgress, tasks[0].Status)
	require.Empty(t, tasks[0].CompletedDate)
}

func TestPlanService_TaskChangesRefreshProjectProgress(t *testing.T) {
	svc, st := setupPlanService(t)

	projectID, err := svc.CreateProject(validProject())
	require.NoError(t, err)
	taskID, err := svc.CreateTask(projectID, validTask())
	require.NoError(t, err)
	_, err = svc.CreateTask(projectID, validTask())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateTaskStatus(taskID, models.TaskStatusCompleted, "2024-04-04"))

	snap, err := st.Load(store.Collection(constants.CollectionProjects))
	require.NoError(t, err)
	projects := store.DecodeAll[models.Project](snap)
	require.Len(t, projects, 1)
	require.Equal(t, 50, projects[0].Progress)
}

func TestPlanService_SubProjectMustFitParentRange(t *testing.T) {
	svc, _ := setupPlanService(t)

	bigID, err := svc.CreateBigProject(models.BigProject{
		Name: "Platform", StartDate: "2024-02-01", EndDate: "2024-06-30",
	})
	require.NoError(t, err)

	sp := models.SubProject{Name: "Early", StartDate: "2024-01-15", EndDate: "2024-03-01"}
	_, err = svc.CreateSubProject(bigID, sp)
	require.ErrorIs(t, err, ErrSubProjectOutOfRange)

	sp = models.SubProject{Name: "Late", StartDate: "2024-06-01", EndDate: "2024-07-15"}
	_, err = svc.CreateSubProject(bigID, sp)
	require.ErrorIs(t, err, ErrSubProjectOutOfRange)

	sp = models.SubProject{Name: "Fits", StartDate: "2024-03-01", EndDate: "2024-05-31"}
	id, err := svc.CreateSubProject(bigID, sp)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = svc.CreateSubProject("missing", sp)
	require.ErrorIs(t, err, ErrBigProjectNotFound)
}

func TestPlanService_CreateBigProjectDefaultsStatus(t *testing.T) {
	svc, st := setupPlanService(t)

	_, err := svc.CreateBigProject(models.BigProject{
		Name: "Platform", StartDate: "2024-02-01", EndDate: "2024-06-30",
	})
	require.NoError(t, err)

	snap, err := st.Load(store.Collection(constants.CollectionBigProjects))
	require.NoError(t, err)
	bps := store.DecodeAll[models.BigProject](snap)
	require.Equal(t, models.BigProjectStatusPlanning, bps[0].Status)
}

func TestPlanService_SubTaskLifecycle(t *testing.T) {
	svc, st := setupPlanService(t)

	bigID, err := svc.CreateBigProject(models.BigProject{
		Name: "Platform", StartDate: "2024-01-01", EndDate: "2024-12-31",
	})
	require.NoError(t, err)
	subID, err := svc.CreateSubProject(bigID, models.SubProject{
		Name: "Phase 1", StartDate: "2024-02-01", EndDate: "2024-03-31",
	})
	require.NoError(t, err)

	taskID, err := svc.CreateSubTask(bigID, subID, models.SubTask{
		Title: "Kickoff", StartDate: "2024-02-01", EndDate: "2024-02-05",
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateSubTaskStatus(bigID, subID, taskID, models.TaskStatusCompleted, "2024-02-03"))

	snap, err := st.Load(store.Collection(store.SubTasksPath(bigID, subID)))
	require.NoError(t, err)
	subTasks := store.DecodeAll[models.SubTask](snap)
	require.Len(t, subTasks, 1)
	require.Equal(t, models.TaskStatusCompleted, subTasks[0].Status)

	require.NoError(t, svc.DeleteSubTask(bigID, subID, taskID))
	snap, err = st.Load(store.Collection(store.SubTasksPath(bigID, subID)))
	require.NoError(t, err)
	require.Empty(t, snap)
}

func TestPlanService_DeleteTaskIsIdempotent(t *testing.T) {
	svc, _ := setupPlanService(t)
	require.NoError(t, svc.DeleteTask("missing"))
}
