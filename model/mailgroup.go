package model

import "time"

const (
	//mail group / mail task statuses
	PENDING       string = "pending"
	VALID                = "valid"
	EXCEPTION            = "exception"
	MANUAL_REVIEW        = "manual-review"
	IN_TRANSIT           = "in-transit"
	DELIVERED            = "delivered"

	//send modes
	GROUPED    = "grouped"
	INDIVIDUAL = "individual"

	//document sources
	SOURCE_SEED   = "seed"
	SOURCE_UPLOAD = "upload"
)

type MailOptions struct {
	CertifiedMail bool `json:"certifiedMail"`
	ReturnReceipt bool `json:"returnReceipt"`
	ColorPrinting bool `json:"colorPrinting"`
	DoubleSided   bool `json:"doubleSided"`
}

type MailGroup struct {
	Id              string      `storm:"id" json:"id"`
	TaskId          string      `json:"taskId"`
	Name            string      `json:"name"`
	Status          string      `json:"status"`
	DeliveryType    string      `json:"deliveryType"`
	SendMode        string      `json:"sendMode"`
	Documents       []Document  `json:"documents"`
	Options         MailOptions `json:"mailOptions"`
	Sender          Participant `json:"sender"`
	Recipient       Participant `json:"recipient"`
	TrackingNumber  string      `json:"trackingNumber,omitempty"`
	DeliveredDate   string      `json:"deliveredDate,omitempty"`
	ExceptionReason string      `json:"exceptionReason,omitempty"`
	SuggestedFix    string      `json:"suggestedFix,omitempty"`
	//empty until the group is dispatched into a job
	JobId     string    `storm:"index" json:"jobId,omitempty"`
	CreatedAt time.Time `storm:"index" json:"createdAt"`
}

//Dispatched reports whether the group already belongs to a job and
//must be excluded from wizard editing
func (g MailGroup) Dispatched() bool {
	return g.JobId != ""
}

//HasDocuments reports whether the group is a mail task, i.e. eligible
//for validation and dispatch
func (g MailGroup) HasDocuments() bool {
	return len(g.Documents) > 0
}

type Participant struct {
	EnterpriseId     string  `json:"enterpriseId"`
	OrganizationId   string  `json:"organizationId"`
	OrganizationName string  `json:"organizationName"`
	ContactName      string  `json:"contactName"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	AddressId        string  `json:"addressId"`
	Address          Address `json:"address"`
}

type Document struct {
	Id           string `json:"id"`
	Name         string `json:"name"`
	Pages        int    `json:"pages"`
	Size         string `json:"size"`
	FileName     string `json:"fileName,omitempty"`
	FileUrl      string `json:"fileUrl,omitempty"`
	ReferenceKey string `json:"referenceKey,omitempty"`
	CacheKey     string `json:"cacheKey,omitempty"`
	Source       string `json:"source"`
}
