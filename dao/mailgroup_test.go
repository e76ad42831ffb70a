package dao

import (
	"testing"
	"time"

	"github.com/dilshat/mail-dispatch/model"
	"github.com/stretchr/testify/require"
)

const (
	GROUP_ID  = "org-a-org-b"
	GROUP_ID2 = "org-a-org-c"
	JOB_ID    = "quarterly-notices-k3f9"
)

func newGroup(id string, createdAt time.Time) *model.MailGroup {
	return &model.MailGroup{
		Id:        id,
		Name:      "Group " + id,
		Status:    model.PENDING,
		SendMode:  model.GROUPED,
		CreatedAt: createdAt,
	}
}

func TestMailGroupDao_Save(t *testing.T) {
	db, cleanup := createDB(t)
	defer cleanup()
	groupDao := NewMailGroupDao(db)

	err := groupDao.Save(newGroup(GROUP_ID, time.Now()))

	require.NoError(t, err)

	saved, err := groupDao.GetOneById(GROUP_ID)

	require.NoError(t, err)
	require.Equal(t, GROUP_ID, saved.Id)
	require.Equal(t, model.PENDING, saved.Status)
}

func TestMailGroupDao_SaveOverwrites(t *testing.T) {
	db, cleanup := createDB(t)
	defer cleanup()
	groupDao := NewMailGroupDao(db)

	group := newGroup(GROUP_ID, time.Now())
	require.NoError(t, groupDao.Save(group))

	group.TaskId = "task-org-a-org-b"
	group.Status = model.VALID
	require.NoError(t, groupDao.Save(group))

	//clearing a field must survive the round trip too
	group.TaskId = ""
	require.NoError(t, groupDao.Save(group))

	saved, err := groupDao.GetOneById(GROUP_ID)
	require.NoError(t, err)
	require.Equal(t, model.VALID, saved.Status)
	require.Empty(t, saved.TaskId)

	all, err := groupDao.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestMailGroupDao_GetAllDrafts(t *testing.T) {
	db, cleanup := createDB(t)
	defer cleanup()
	groupDao := NewMailGroupDao(db)

	older := newGroup(GROUP_ID, time.Now().Add(-time.Hour))
	require.NoError(t, groupDao.Save(older))

	dispatched := newGroup(GROUP_ID2, time.Now())
	dispatched.JobId = JOB_ID
	require.NoError(t, groupDao.Save(dispatched))

	drafts, err := groupDao.GetAllDrafts()

	require.NoError(t, err)
	require.Len(t, drafts, 1)
	require.Equal(t, GROUP_ID, drafts[0].Id)
}

func TestMailGroupDao_GetAllOrder(t *testing.T) {
	db, cleanup := createDB(t)
	defer cleanup()
	groupDao := NewMailGroupDao(db)

	newer := newGroup(GROUP_ID2, time.Now())
	require.NoError(t, groupDao.Save(newer))
	older := newGroup(GROUP_ID, time.Now().Add(-time.Hour))
	require.NoError(t, groupDao.Save(older))

	all, err := groupDao.GetAll()

	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, GROUP_ID, all[0].Id)
	require.Equal(t, GROUP_ID2, all[1].Id)
}

func TestMailGroupDao_GetAllByJobId(t *testing.T) {
	db, cleanup := createDB(t)
	defer cleanup()
	groupDao := NewMailGroupDao(db)

	dispatched := newGroup(GROUP_ID, time.Now())
	dispatched.JobId = JOB_ID
	require.NoError(t, groupDao.Save(dispatched))
	require.NoError(t, groupDao.Save(newGroup(GROUP_ID2, time.Now())))

	groups, err := groupDao.GetAllByJobId(JOB_ID)

	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, GROUP_ID, groups[0].Id)

	none, err := groupDao.GetAllByJobId("missing")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestMailGroupDao_RemoveById(t *testing.T) {
	db, cleanup := createDB(t)
	defer cleanup()
	groupDao := NewMailGroupDao(db)

	require.NoError(t, groupDao.Save(newGroup(GROUP_ID, time.Now())))

	err := groupDao.RemoveById(GROUP_ID)

	require.NoError(t, err)

	_, err = groupDao.GetOneById(GROUP_ID)
	require.Error(t, err)

	//removing a missing group is not an error
	require.NoError(t, groupDao.RemoveById(GROUP_ID))
}
