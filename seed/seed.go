package seed

import (
	"encoding/json"
	"io/ioutil"

	"github.com/dilshat/mail-dispatch/model"
)

//Data is the static document that bootstraps all reference data for a
//session: enterprises, organizations, recipients, jobs, uploaded files
//and tracking events
type Data struct {
	Enterprises    []model.Enterprise    `json:"enterprises"`
	Organizations  []model.Organization  `json:"organizations"`
	Recipients     []model.Recipient     `json:"recipients"`
	Jobs           []model.Job           `json:"jobs"`
	UploadedFiles  []model.Document      `json:"uploadedFiles"`
	TrackingEvents []model.TrackingEvent `json:"trackingEvents"`
}

//Load reads and parses the seed document at the given path. On any
//failure it returns an empty Data so callers degrade to an empty-state
//view instead of crashing.
func Load(path string) (Data, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return Data{}, err
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return Data{}, err
	}

	return data.normalize(), nil
}

//normalize fills defaults the UI relies on so downstream code does not
//have to nil-check collections or statuses
func (d Data) normalize() Data {
	if d.Enterprises == nil {
		d.Enterprises = []model.Enterprise{}
	}
	if d.Organizations == nil {
		d.Organizations = []model.Organization{}
	}
	if d.Recipients == nil {
		d.Recipients = []model.Recipient{}
	}
	if d.Jobs == nil {
		d.Jobs = []model.Job{}
	}
	if d.UploadedFiles == nil {
		d.UploadedFiles = []model.Document{}
	}
	if d.TrackingEvents == nil {
		d.TrackingEvents = []model.TrackingEvent{}
	}

	for i := range d.Jobs {
		if d.Jobs[i].Status == "" {
			d.Jobs[i].Status = model.IN_TRANSIT
		}
	}
	for i := range d.UploadedFiles {
		if d.UploadedFiles[i].Source == "" {
			d.UploadedFiles[i].Source = model.SOURCE_SEED
		}
	}

	return d
}

//Organization looks up an organization by id
func (d Data) Organization(id string) (model.Organization, bool) {
	for _, o := range d.Organizations {
		if o.Id == id {
			return o, true
		}
	}
	return model.Organization{}, false
}

//BestEnterprise picks the enterprise whose allow-lists best match the
//given sender/recipient organization pair: a match on both roles wins,
//then sender-only, then recipient-only, then the first enterprise
func (d Data) BestEnterprise(senderOrgId, recipientOrgId string) (model.Enterprise, bool) {
	if len(d.Enterprises) == 0 {
		return model.Enterprise{}, false
	}

	var senderOnly, recipientOnly *model.Enterprise
	for i := range d.Enterprises {
		e := d.Enterprises[i]
		sendOk := e.ListsSender(senderOrgId)
		recvOk := e.ListsRecipient(recipientOrgId)
		if sendOk && recvOk {
			return e, true
		}
		if sendOk && senderOnly == nil {
			senderOnly = &d.Enterprises[i]
		}
		if recvOk && recipientOnly == nil {
			recipientOnly = &d.Enterprises[i]
		}
	}
	if senderOnly != nil {
		return *senderOnly, true
	}
	if recipientOnly != nil {
		return *recipientOnly, true
	}
	return d.Enterprises[0], true
}
