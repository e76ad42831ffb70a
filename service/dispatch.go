package service

import (
	"strconv"
	"time"

	"github.com/asdine/storm/v3"
	"github.com/dchest/uniuri"
	"github.com/dilshat/mail-dispatch/dao"
	"github.com/dilshat/mail-dispatch/model"
	"github.com/dilshat/mail-dispatch/service/dto"
	"github.com/dilshat/mail-dispatch/util"
	"go.uber.org/zap"
)

//PerItemCost is the placeholder per-item postage used by the report
//summary until real rate cards exist
const PerItemCost = 7.95

var trackingDigits = []byte("0123456789")

func trackingNumber() string {
	return "94" + uniuri.NewLenChars(20, trackingDigits)
}

func jobId(name string, now time.Time) string {
	fragment := util.Truncate(util.SanitizeKey(name), 24)
	if fragment == "" {
		fragment = "job"
	}
	millis := now.UnixNano() / int64(time.Millisecond)
	return fragment + "-" + strconv.FormatInt(millis, 36)
}

func (s *service) Dispatch(req dto.JobRequest) (model.Job, error) {
	if util.IsBlank(req.Name) {
		return model.Job{}, NewInvalidPayloadError("Job name is required")
	}

	drafts, err := s.groupDao.GetAllDrafts()
	if err != nil {
		return model.Job{}, err
	}

	var qualifying []model.MailGroup
	for _, g := range drafts {
		if g.HasDocuments() {
			qualifying = append(qualifying, g)
		}
	}
	if len(qualifying) == 0 {
		return model.Job{}, NewInvalidPayloadError("At least one mail group needs an attached document")
	}

	now := time.Now()
	id := jobId(req.Name, now)

	s.mu.Lock()
	exceptions := len(s.open)
	s.mu.Unlock()

	for i := range qualifying {
		group := qualifying[i]
		group.Status = model.IN_TRANSIT
		if group.TrackingNumber == "" {
			group.TrackingNumber = trackingNumber()
		}
		group.DeliveredDate = ""
		group.JobId = id
		if err := s.groupDao.Save(&group); err != nil {
			return model.Job{}, err
		}
	}

	priority := req.Priority
	if priority == "" {
		priority = "normal"
	}
	job := model.Job{
		Id:         id,
		Name:       req.Name,
		Status:     model.IN_TRANSIT,
		SentDate:   now,
		Items:      len(qualifying),
		Delivered:  0,
		InTransit:  len(qualifying),
		Exceptions: exceptions,
		Priority:   priority,
	}
	if err := s.jobDao.Save(&job); err != nil {
		return model.Job{}, err
	}

	//clear the wizard draft: undocumented pairings and validation state
	for _, g := range drafts {
		if !g.HasDocuments() {
			if err := s.groupDao.RemoveById(g.Id); err != nil {
				zap.L().Warn("Error clearing draft mail group", zap.String("group", g.Id), zap.Error(err))
			}
		}
	}
	s.mu.Lock()
	s.valState = VAL_IDLE
	s.valProgress = 0
	s.open = nil
	s.mu.Unlock()

	return job, nil
}

func (s *service) Jobs() ([]model.Job, error) {
	stored, err := s.jobDao.GetAll()
	if err != nil {
		return nil, err
	}

	storedIds := make(map[string]bool, len(stored))
	for _, j := range stored {
		storedIds[j.Id] = true
	}

	//seed entries are overridden by matching stored entries
	jobs := append([]model.Job{}, stored...)
	for _, j := range s.seedData.Jobs {
		if !storedIds[j.Id] {
			jobs = append(jobs, j)
		}
	}
	dao.SortJobs(jobs)

	return jobs, nil
}

func (s *service) Timeline(jobId string) ([]model.TrackingEvent, error) {
	job, err := s.findJob(jobId)
	if err != nil {
		return nil, err
	}

	//seeded historical jobs may ship their own timeline
	var seeded []model.TrackingEvent
	for _, ev := range s.seedData.TrackingEvents {
		if ev.JobId == jobId {
			seeded = append(seeded, ev)
		}
	}
	if len(seeded) > 0 {
		return seeded, nil
	}

	return syntheticTimeline(job), nil
}

//syntheticTimeline is the fixed four-step tracking story relative to the
//job's dispatch time
func syntheticTimeline(job model.Job) []model.TrackingEvent {
	now := time.Now()
	steps := []struct {
		after     time.Duration
		event     string
		location  string
		signature string
	}{
		{0, "Dispatched from origin facility", "Origin processing facility", ""},
		{24 * time.Hour, "Arrived at regional distribution center", "Regional distribution center", ""},
		{48 * time.Hour, "Out for delivery", "Destination post office", ""},
		{52 * time.Hour, "Delivered", "Recipient address", "On file"},
	}

	events := make([]model.TrackingEvent, 0, len(steps))
	for _, step := range steps {
		ts := job.SentDate.Add(step.after)
		events = append(events, model.TrackingEvent{
			JobId:     job.Id,
			Timestamp: ts,
			Event:     step.event,
			Location:  step.location,
			Signature: step.signature,
			Completed: !ts.After(now),
		})
	}

	return events
}

func (s *service) findJob(id string) (model.Job, error) {
	job, err := s.jobDao.GetOneById(id)
	if err == nil {
		return job, nil
	}
	for _, j := range s.seedData.Jobs {
		if j.Id == id {
			return j, nil
		}
	}
	return model.Job{}, storm.ErrNotFound
}

func (s *service) Report() (dto.ReportSummary, error) {
	jobs, err := s.Jobs()
	if err != nil {
		return dto.ReportSummary{}, err
	}

	summary := dto.ReportSummary{Jobs: len(jobs)}
	for _, j := range jobs {
		summary.Items += j.Items
		summary.Delivered += j.Delivered
		summary.InTransit += j.InTransit
		summary.Exceptions += j.Exceptions
	}
	summary.PostageCost = float64(summary.Items) * PerItemCost

	return summary, nil
}
