package dao

import (
	"sort"

	"github.com/dilshat/mail-dispatch/model"
)

type MailGroupDao interface {
	//Save inserts or overwrites the group record
	Save(group *model.MailGroup) error
	//GetOneById returns a group by id
	GetOneById(id string) (model.MailGroup, error)
	//GetAll returns all groups in wizard grid order
	GetAll() ([]model.MailGroup, error)
	//GetAllDrafts returns all groups not yet dispatched into a job,
	//in wizard grid order
	GetAllDrafts() ([]model.MailGroup, error)
	//GetAllByJobId returns all groups dispatched into the given job
	GetAllByJobId(jobId string) ([]model.MailGroup, error)
	//RemoveById deletes the group with the given id
	RemoveById(id string) error
}

func NewMailGroupDao(db Db) MailGroupDao {
	return &mailGroupDao{db: db}
}

type mailGroupDao struct {
	db Db
}

func (d mailGroupDao) Save(group *model.MailGroup) error {
	return d.db.Save(group)
}

func (d mailGroupDao) GetOneById(id string) (group model.MailGroup, err error) {
	err = d.db.One("Id", id, &group)
	return
}

func (d mailGroupDao) GetAll() ([]model.MailGroup, error) {
	var groups []model.MailGroup
	err := d.db.All(&groups)
	if err != nil {
		return nil, err
	}
	sortGroups(groups)
	return groups, nil
}

func (d mailGroupDao) GetAllDrafts() ([]model.MailGroup, error) {
	groups, err := d.GetAll()
	if err != nil {
		return nil, err
	}
	drafts := groups[:0]
	for _, g := range groups {
		if !g.Dispatched() {
			drafts = append(drafts, g)
		}
	}
	return drafts, nil
}

func (d mailGroupDao) GetAllByJobId(jobId string) (groups []model.MailGroup, err error) {
	err = d.db.Find("JobId", jobId, &groups)
	if err != nil && err.Error() == "not found" {
		return nil, nil
	}
	sortGroups(groups)
	return
}

func (d mailGroupDao) RemoveById(id string) error {
	//load first so index entries are cleaned up with the record
	var group model.MailGroup
	err := d.db.One("Id", id, &group)
	if err != nil {
		if err.Error() == "not found" {
			return nil
		}
		return err
	}
	return d.db.DeleteStruct(&group)
}

//wizard grid order is creation order; ids break ties so the order is
//stable across restarts
func sortGroups(groups []model.MailGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].CreatedAt.Equal(groups[j].CreatedAt) {
			return groups[i].Id < groups[j].Id
		}
		return groups[i].CreatedAt.Before(groups[j].CreatedAt)
	})
}
