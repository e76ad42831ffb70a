package model

type Enterprise struct {
	Id           string   `json:"id"`
	Name         string   `json:"name"`
	ContactName  string   `json:"contactName"`
	ContactEmail string   `json:"contactEmail"`
	ContactPhone string   `json:"contactPhone"`
	SendFrom     []string `json:"sendFrom,omitempty"`
	ReceiveTo    []string `json:"receiveTo,omitempty"`
}

//ListsSender reports whether the sender allow-list names the organization
func (e Enterprise) ListsSender(orgId string) bool {
	return contains(e.SendFrom, orgId)
}

//ListsRecipient reports whether the recipient allow-list names the organization
func (e Enterprise) ListsRecipient(orgId string) bool {
	return contains(e.ReceiveTo, orgId)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type Organization struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Addresses []Address `json:"addresses"`
}

//DefaultAddress returns the address flagged as default, falling back to
//the first address when none is flagged
func (o Organization) DefaultAddress() Address {
	for _, a := range o.Addresses {
		if a.Default {
			return a
		}
	}
	if len(o.Addresses) > 0 {
		return o.Addresses[0]
	}
	return Address{}
}

type Address struct {
	Id         string `json:"id"`
	Label      string `json:"label,omitempty"`
	Street1    string `json:"street1"`
	Street2    string `json:"street2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	County     string `json:"county,omitempty"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
	Default    bool   `json:"isDefault,omitempty"`
}

//Recipient is an address-book entry shipped with the seed document
type Recipient struct {
	Id             string `json:"id"`
	Name           string `json:"name"`
	OrganizationId string `json:"organizationId"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
}
