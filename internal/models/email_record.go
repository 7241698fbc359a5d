package models

// EmailRecord aggregates every commit authored under one email address.
// Name and SampleSHA come from the first commit seen for the email in git
// log order, which is not necessarily the oldest one.
type EmailRecord struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Commits   int    `json:"commits"`
	SampleSHA string `json:"sample_sha"`
}

// NewEmailRecord creates an EmailRecord from the first commit seen for an email
func NewEmailRecord(email, name, sha string) *EmailRecord {
	return &EmailRecord{
		Email:     email,
		Name:      name,
		Commits:   1,
		SampleSHA: sha,
	}
}
