package service

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/asdine/storm/v3"
	"github.com/dilshat/mail-dispatch/dao"
	"github.com/dilshat/mail-dispatch/model"
	"github.com/dilshat/mail-dispatch/pdfcache"
	"github.com/dilshat/mail-dispatch/progress"
	"github.com/dilshat/mail-dispatch/seed"
	"github.com/dilshat/mail-dispatch/service/dto"
	"github.com/dilshat/mail-dispatch/util"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InvalidPayloadErr struct {
	message string
}

func (e *InvalidPayloadErr) Error() string {
	return e.message
}

func NewInvalidPayloadError(msg string) *InvalidPayloadErr {
	return &InvalidPayloadErr{message: msg}
}

type Service interface {
	//SeedData returns the seed document, or the load error captured at startup
	SeedData() (seed.Data, error)
	//SyncGroups reconciles the mail group grid with the selected
	//sender/recipient organizations and returns the resulting grid
	SyncGroups(sel dto.Selection) (dto.GroupList, error)
	//Groups returns the current wizard grid without changing it
	Groups() (dto.GroupList, error)
	//Attach adds the pdf files of an upload batch to a mail group
	Attach(groupId string, uploads []dto.Upload) (model.MailGroup, error)
	//Detach removes a document from a mail group and evicts its cache entry
	Detach(groupId, documentId string) (model.MailGroup, error)
	//StartValidation kicks off an address validation run over the mail tasks
	StartValidation() error
	//ValidationStatus reports run progress and the open exceptions
	ValidationStatus() (dto.ValidationStatus, error)
	//SkipException sends a flagged group to manual review
	SkipException(groupId string) (model.MailGroup, error)
	//FixException applies a corrected address to a flagged group
	FixException(groupId string, fix dto.AddressFix) (model.MailGroup, error)
	//Dispatch converts every mail task into a job and clears the wizard draft
	Dispatch(req dto.JobRequest) (model.Job, error)
	//Jobs returns the job history, stored entries overriding seed ones by id
	Jobs() ([]model.Job, error)
	//Timeline returns the tracking timeline for a job
	Timeline(jobId string) ([]model.TrackingEvent, error)
	//Report aggregates the job history into a summary
	Report() (dto.ReportSummary, error)
}

type service struct {
	groupDao dao.MailGroupDao
	jobDao   dao.JobDao
	cache    pdfcache.Cache
	tracker  *progress.Tracker
	seedData seed.Data
	seedErr  error
	tick     time.Duration

	//validation run state, mutated by the run goroutine
	mu          sync.Mutex
	valState    string
	valProgress int
	open        []string
}

func NewService(groupDao dao.MailGroupDao, jobDao dao.JobDao, cache pdfcache.Cache, tracker *progress.Tracker,
	seedData seed.Data, seedErr error, tick time.Duration) Service {
	return &service{
		groupDao: groupDao,
		jobDao:   jobDao,
		cache:    cache,
		tracker:  tracker,
		seedData: seedData,
		seedErr:  seedErr,
		tick:     tick,
		valState: VAL_IDLE,
	}
}

func (s *service) SeedData() (seed.Data, error) {
	return s.seedData, s.seedErr
}

//pairId derives the deterministic group id from the organization pairing
func pairId(senderOrgId, recipientOrgId string) string {
	id := util.SanitizeKey(senderOrgId + "-" + recipientOrgId)
	if id == "" {
		return "group"
	}
	return id
}

func taskId(senderOrgId, recipientOrgId string) string {
	return "task-" + pairId(senderOrgId, recipientOrgId)
}

func pairKey(senderOrgId, recipientOrgId string) string {
	return senderOrgId + "|" + recipientOrgId
}

func (s *service) SyncGroups(sel dto.Selection) (dto.GroupList, error) {
	all, err := s.groupDao.GetAll()
	if err != nil {
		return dto.GroupList{}, err
	}

	existing := make(map[string]model.MailGroup)
	usedIds := make(map[string]bool)
	for _, g := range all {
		usedIds[g.Id] = true
		if !g.Dispatched() {
			existing[pairKey(g.Sender.OrganizationId, g.Recipient.OrganizationId)] = g
		}
	}

	var result []model.MailGroup
	seen := make(map[string]bool)
	created := 0
	now := time.Now()
	for _, senderOrgId := range sel.SenderOrgIds {
		for _, recipientOrgId := range sel.RecipientOrgIds {
			key := pairKey(senderOrgId, recipientOrgId)
			if seen[key] {
				continue
			}
			seen[key] = true

			if g, ok := existing[key]; ok {
				result = append(result, g)
				delete(existing, key)
				continue
			}

			//keep creation order inside one sync so the grid order is stable
			g := s.newGroup(senderOrgId, recipientOrgId, usedIds, now.Add(time.Duration(created)*time.Millisecond))
			created++
			usedIds[g.Id] = true
			if err := s.groupDao.Save(&g); err != nil {
				return dto.GroupList{}, err
			}
			result = append(result, g)
		}
	}

	//drop drafts whose pairing fell out of the cross-product
	for _, g := range existing {
		for _, doc := range g.Documents {
			if doc.CacheKey != "" {
				s.cache.Remove(doc.CacheKey)
			}
		}
		if err := s.groupDao.RemoveById(g.Id); err != nil {
			return dto.GroupList{}, err
		}
		s.dropException(g.Id)
	}

	return s.groupList(result), nil
}

func (s *service) Groups() (dto.GroupList, error) {
	drafts, err := s.groupDao.GetAllDrafts()
	if err != nil {
		return dto.GroupList{}, err
	}
	return s.groupList(drafts), nil
}

//groupList re-derives the selection arrays from the groups so the two
//stay consistent, and refreshes ephemeral file urls from the cache
func (s *service) groupList(groups []model.MailGroup) dto.GroupList {
	if groups == nil {
		groups = []model.MailGroup{}
	}

	var senders, recipients []string
	seenSender := make(map[string]bool)
	seenRecipient := make(map[string]bool)
	for i := range groups {
		g := &groups[i]
		if !seenSender[g.Sender.OrganizationId] {
			seenSender[g.Sender.OrganizationId] = true
			senders = append(senders, g.Sender.OrganizationId)
		}
		if !seenRecipient[g.Recipient.OrganizationId] {
			seenRecipient[g.Recipient.OrganizationId] = true
			recipients = append(recipients, g.Recipient.OrganizationId)
		}
		for j := range g.Documents {
			doc := &g.Documents[j]
			if doc.CacheKey != "" {
				if dataUrl := s.cache.Get(doc.CacheKey); dataUrl != "" {
					doc.FileUrl = dataUrl
				}
			}
		}
	}

	return dto.GroupList{Groups: groups, SenderOrgIds: senders, RecipientOrgIds: recipients}
}

func (s *service) newGroup(senderOrgId, recipientOrgId string, usedIds map[string]bool, createdAt time.Time) model.MailGroup {
	id := pairId(senderOrgId, recipientOrgId)
	base := id
	for i := 2; usedIds[id]; i++ {
		id = base + "-" + strconv.Itoa(i)
	}

	sender := s.participant(senderOrgId, senderOrgId, recipientOrgId)
	recipient := s.participant(recipientOrgId, senderOrgId, recipientOrgId)

	return model.MailGroup{
		Id:           id,
		Name:         fmt.Sprintf("%s to %s", sender.OrganizationName, recipient.OrganizationName),
		Status:       model.PENDING,
		DeliveryType: "standard",
		SendMode:     model.GROUPED,
		Documents:    []model.Document{},
		Sender:       sender,
		Recipient:    recipient,
		CreatedAt:    createdAt,
	}
}

//participant builds a denormalized sender or recipient from the seeded
//organization's default address and the best-matching enterprise, so
//wizard edits never touch the shared records
func (s *service) participant(orgId, senderOrgId, recipientOrgId string) model.Participant {
	p := model.Participant{OrganizationId: orgId, OrganizationName: orgId}

	if org, ok := s.seedData.Organization(orgId); ok {
		p.OrganizationName = org.Name
		addr := org.DefaultAddress()
		p.AddressId = addr.Id
		p.Address = addr
	}
	if ent, ok := s.seedData.BestEnterprise(senderOrgId, recipientOrgId); ok {
		p.EnterpriseId = ent.Id
		p.ContactName = ent.ContactName
		p.Email = ent.ContactEmail
		p.Phone = ent.ContactPhone
	}

	return p
}

func (s *service) Attach(groupId string, uploads []dto.Upload) (model.MailGroup, error) {
	group, err := s.groupDao.GetOneById(groupId)
	if err != nil {
		return model.MailGroup{}, err
	}
	if group.Dispatched() {
		return model.MailGroup{}, NewInvalidPayloadError("Mail group " + groupId + " is already dispatched")
	}

	now := time.Now()
	accepted := 0
	for _, upload := range uploads {
		if !isPdf(upload) {
			zap.L().Warn("Skipping non-pdf upload", zap.String("name", upload.Name))
			continue
		}
		key := pdfcache.Key(upload.Name, now, upload.LastModified)
		dataUrl := s.cache.Store(key, upload.Data)
		group.Documents = append(group.Documents, model.Document{
			Id:       uuid.New().String(),
			Name:     upload.Name,
			Pages:    1 + rand.Intn(24),
			Size:     util.HumanSize(int64(len(upload.Data))),
			FileName: upload.Name,
			FileUrl:  dataUrl,
			CacheKey: key,
			Source:   model.SOURCE_UPLOAD,
		})
		accepted++
	}

	if accepted == 0 && len(uploads) > 0 {
		return model.MailGroup{}, NewInvalidPayloadError("Only pdf files can be attached")
	}

	syncTaskId(&group)
	if err := s.groupDao.Save(&group); err != nil {
		return model.MailGroup{}, err
	}

	return group, nil
}

func (s *service) Detach(groupId, documentId string) (model.MailGroup, error) {
	group, err := s.groupDao.GetOneById(groupId)
	if err != nil {
		return model.MailGroup{}, err
	}
	if group.Dispatched() {
		return model.MailGroup{}, NewInvalidPayloadError("Mail group " + groupId + " is already dispatched")
	}

	idx := -1
	for i, doc := range group.Documents {
		if doc.Id == documentId {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.MailGroup{}, storm.ErrNotFound
	}

	if key := group.Documents[idx].CacheKey; key != "" {
		s.cache.Remove(key)
	}
	group.Documents = append(group.Documents[:idx], group.Documents[idx+1:]...)

	syncTaskId(&group)
	if err := s.groupDao.Save(&group); err != nil {
		return model.MailGroup{}, err
	}

	return group, nil
}

//syncTaskId keeps the invariant that a group has a task id exactly when
//it has at least one document
func syncTaskId(group *model.MailGroup) {
	if len(group.Documents) == 0 {
		group.TaskId = ""
		return
	}
	if group.TaskId == "" {
		group.TaskId = taskId(group.Sender.OrganizationId, group.Recipient.OrganizationId)
	}
}

func isPdf(upload dto.Upload) bool {
	if upload.ContentType == "application/pdf" {
		return true
	}
	return strings.HasSuffix(strings.ToLower(upload.Name), ".pdf")
}
