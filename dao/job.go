package dao

import (
	"sort"

	"github.com/dilshat/mail-dispatch/model"
)

type JobDao interface {
	//Save inserts or overwrites the job record
	Save(job *model.Job) error
	//GetOneById returns a job by id
	GetOneById(id string) (model.Job, error)
	//GetAll returns all jobs sorted by descending sent date
	GetAll() ([]model.Job, error)
}

func NewJobDao(db Db) JobDao {
	return &jobDao{db: db}
}

type jobDao struct {
	db Db
}

func (d jobDao) Save(job *model.Job) error {
	return d.db.Save(job)
}

func (d jobDao) GetOneById(id string) (job model.Job, err error) {
	err = d.db.One("Id", id, &job)
	return
}

func (d jobDao) GetAll() ([]model.Job, error) {
	var jobs []model.Job
	err := d.db.All(&jobs)
	if err != nil {
		return nil, err
	}
	SortJobs(jobs)
	return jobs, nil
}

//SortJobs orders jobs by descending sent date, newest first
func SortJobs(jobs []model.Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].SentDate.After(jobs[j].SentDate)
	})
}
