package models

// QualificationRequest is the payload built at submit time. It is either a
// URLRequest or a ManualRequest.
type QualificationRequest interface {
	Person() string
	qualificationRequest()
}

type URLRequest struct {
	PersonName string `json:"person_name"`
	EventURL   string `json:"event_url"`
}

func (r URLRequest) Person() string { return r.PersonName }

func (URLRequest) qualificationRequest() {}

type ManualRequest struct {
	PersonName   string       `json:"person_name"`
	EventDetails EventDetails `json:"event_details"`
}

func (r ManualRequest) Person() string { return r.PersonName }

func (ManualRequest) qualificationRequest() {}

// NewManualRequest filters blank requirements out of details.
func NewManualRequest(personName string, details EventDetails) ManualRequest {
	return ManualRequest{
		PersonName:   personName,
		EventDetails: details.Submittable(),
	}
}
