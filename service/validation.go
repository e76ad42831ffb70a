package service

import (
	"strings"
	"time"

	"github.com/dilshat/mail-dispatch/model"
	"github.com/dilshat/mail-dispatch/service/dto"
	"go.uber.org/zap"
)

const (
	//validation run states
	VAL_IDLE     = "idle"
	VAL_RUNNING  = "running"
	VAL_COMPLETE = "complete"

	//every third mail task is flagged; placeholder demo rule carried
	//over from the address verification mock
	exceptionStride = 3

	exceptionReason = "Suite number missing or invalid for this address"
	suggestedSuite  = ", Suite 100"
)

func (s *service) StartValidation() error {
	drafts, err := s.groupDao.GetAllDrafts()
	if err != nil {
		return err
	}
	if countTasks(drafts) == 0 {
		return NewInvalidPayloadError("No mail groups with documents to validate")
	}

	s.mu.Lock()
	if s.valState == VAL_RUNNING {
		s.mu.Unlock()
		return NewInvalidPayloadError("A validation run is already in progress")
	}
	s.valState = VAL_RUNNING
	s.valProgress = 0
	s.open = nil
	s.mu.Unlock()

	go s.runValidation()

	return nil
}

//runValidation advances progress in fixed 10% steps per tick and then
//classifies the mail tasks
func (s *service) runValidation() {
	for p := 10; p < 100; p += 10 {
		time.Sleep(s.tick)
		s.mu.Lock()
		s.valProgress = p
		s.mu.Unlock()
		s.tracker.Publish(p, false)
	}
	time.Sleep(s.tick)

	s.classify()
	s.tracker.Publish(100, true)
}

func (s *service) classify() {
	var open []string
	defer func() {
		s.mu.Lock()
		s.valState = VAL_COMPLETE
		s.valProgress = 100
		s.open = open
		s.mu.Unlock()
	}()

	drafts, err := s.groupDao.GetAllDrafts()
	if err != nil {
		zap.L().Error("Error loading mail groups for validation", zap.Error(err))
		return
	}

	index := 0
	for _, group := range drafts {
		if !group.HasDocuments() {
			continue
		}
		if index%exceptionStride == 0 {
			group.Status = model.EXCEPTION
			group.ExceptionReason = exceptionReason
			group.SuggestedFix = suggestedFix(group.Recipient.Address)
			open = append(open, group.Id)
		} else {
			group.Status = model.VALID
			group.ExceptionReason = ""
			group.SuggestedFix = ""
		}
		index++
		if err := s.groupDao.Save(&group); err != nil {
			zap.L().Error("Error saving validated mail group", zap.String("group", group.Id), zap.Error(err))
		}
	}
}

func suggestedFix(addr model.Address) string {
	line := addr.Street1
	if strings.Contains(line, "Suite") {
		return line
	}
	return line + suggestedSuite
}

func (s *service) ValidationStatus() (dto.ValidationStatus, error) {
	s.mu.Lock()
	state := s.valState
	progress := s.valProgress
	open := append([]string(nil), s.open...)
	s.mu.Unlock()

	status := dto.ValidationStatus{State: state, Progress: progress, Exceptions: []dto.ExceptionInfo{}}
	for _, id := range open {
		group, err := s.groupDao.GetOneById(id)
		if err != nil {
			return dto.ValidationStatus{}, err
		}
		status.Exceptions = append(status.Exceptions, dto.ExceptionInfo{
			GroupId:      group.Id,
			Reason:       group.ExceptionReason,
			SuggestedFix: group.SuggestedFix,
		})
	}

	return status, nil
}

func (s *service) SkipException(groupId string) (model.MailGroup, error) {
	group, err := s.groupDao.GetOneById(groupId)
	if err != nil {
		return model.MailGroup{}, err
	}
	if group.Status != model.EXCEPTION {
		return model.MailGroup{}, NewInvalidPayloadError("Mail group " + groupId + " has no open exception")
	}

	//address stays untouched, the task just leaves the exception queue
	group.Status = model.MANUAL_REVIEW
	if err := s.groupDao.Save(&group); err != nil {
		return model.MailGroup{}, err
	}
	s.dropException(groupId)

	return group, nil
}

func (s *service) FixException(groupId string, fix dto.AddressFix) (model.MailGroup, error) {
	group, err := s.groupDao.GetOneById(groupId)
	if err != nil {
		return model.MailGroup{}, err
	}
	if group.Status != model.EXCEPTION {
		return model.MailGroup{}, NewInvalidPayloadError("Mail group " + groupId + " has no open exception")
	}

	switch {
	case fix.Structured():
		applyStructured(&group.Recipient.Address, fix)
	case !isBlankFix(fix):
		group.Recipient.Address.Street1 = strings.TrimSpace(fix.Freeform)
	default:
		return model.MailGroup{}, NewInvalidPayloadError("Address fix is empty")
	}

	group.Status = model.VALID
	group.ExceptionReason = ""
	group.SuggestedFix = ""
	if err := s.groupDao.Save(&group); err != nil {
		return model.MailGroup{}, err
	}
	s.dropException(groupId)

	return group, nil
}

func applyStructured(addr *model.Address, fix dto.AddressFix) {
	if fix.Street1 != "" {
		addr.Street1 = fix.Street1
	}
	if fix.Street2 != "" {
		addr.Street2 = fix.Street2
	}
	if fix.City != "" {
		addr.City = fix.City
	}
	if fix.State != "" {
		addr.State = fix.State
	}
	if fix.PostalCode != "" {
		addr.PostalCode = fix.PostalCode
	}
}

func isBlankFix(fix dto.AddressFix) bool {
	return strings.TrimSpace(fix.Freeform) == ""
}

func (s *service) dropException(groupId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range s.open {
		if id == groupId {
			s.open = append(s.open[:i], s.open[i+1:]...)
			return
		}
	}
}

func countTasks(groups []model.MailGroup) int {
	n := 0
	for _, g := range groups {
		if g.HasDocuments() {
			n++
		}
	}
	return n
}
