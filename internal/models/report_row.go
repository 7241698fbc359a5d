package models

// ReportRow joins one EmailRecord with its resolved Identity for rendering.
// Name prefers the GitHub display name and falls back to the commit author
// name.
type ReportRow struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Commits    int    `json:"commits"`
	SampleSHA  string `json:"sample_sha"`
	ProfileURL string `json:"profile_url"`
	LinkedIn   string `json:"linkedin,omitempty"`
	Website    string `json:"website,omitempty"`
	Company    string `json:"company,omitempty"`
}
