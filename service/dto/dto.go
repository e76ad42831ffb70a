package dto

import "github.com/dilshat/mail-dispatch/model"

//Selection carries the wizard's chosen sender and recipient organizations
type Selection struct {
	SenderOrgIds    []string `json:"senderOrgIds"`
	RecipientOrgIds []string `json:"recipientOrgIds"`
}

//GroupList is the wizard grid: the synthesized groups plus the selection
//arrays re-derived from them
type GroupList struct {
	Groups          []model.MailGroup `json:"groups"`
	SenderOrgIds    []string          `json:"senderOrgIds"`
	RecipientOrgIds []string          `json:"recipientOrgIds"`
}

//Upload is one file from a multipart upload batch
type Upload struct {
	Name         string `json:"name"`
	ContentType  string `json:"contentType"`
	LastModified int64  `json:"lastModified"`
	Data         []byte `json:"-"`
}

//JobRequest is the job-detail form payload submitted at dispatch
type JobRequest struct {
	Name         string `json:"name"`
	Priority     string `json:"priority"`
	DeliveryType string `json:"deliveryType"`
}

//AddressFix carries either a freeform line or structured fields for
//correcting a flagged address
type AddressFix struct {
	Freeform   string `json:"freeform,omitempty"`
	Street1    string `json:"street1,omitempty"`
	Street2    string `json:"street2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

//Structured reports whether any structured field is set
func (f AddressFix) Structured() bool {
	return f.Street1 != "" || f.Street2 != "" || f.City != "" || f.State != "" || f.PostalCode != ""
}

type ExceptionInfo struct {
	GroupId      string `json:"groupId"`
	Reason       string `json:"reason"`
	SuggestedFix string `json:"suggestedFix"`
}

type ValidationStatus struct {
	State      string          `json:"state"`
	Progress   int             `json:"progress"`
	Exceptions []ExceptionInfo `json:"exceptions"`
}

//ReportSummary aggregates the persisted job history
type ReportSummary struct {
	Jobs        int     `json:"jobs"`
	Items       int     `json:"items"`
	Delivered   int     `json:"delivered"`
	InTransit   int     `json:"inTransit"`
	Exceptions  int     `json:"exceptions"`
	PostageCost float64 `json:"postageCost"`
}
