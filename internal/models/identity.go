package models

// IdentitySource represents the resolution tier that produced an Identity
type IdentitySource string

const (
	// SourceUnresolved means no GitHub account could be linked to the email.
	SourceUnresolved IdentitySource = "unresolved"
	// SourceContributorMatch means the email's local part matched a
	// contributor login, so no per-commit API call was needed.
	SourceContributorMatch IdentitySource = "contributor_match"
	// SourceCommitAuthor means the commit-author API linked the email to an
	// account.
	SourceCommitAuthor IdentitySource = "commit_author"
	// SourceFullDetail means the full user profile was fetched.
	SourceFullDetail IdentitySource = "full_detail"
)

// Identity is the resolved GitHub identity for one EmailRecord. Fields
// beyond ProfileURL are only populated at the FullDetail tier, except Name
// which the commit-author tier also carries.
type Identity struct {
	Source     IdentitySource `json:"source"`
	ProfileURL string         `json:"profile_url"`
	Name       string         `json:"name,omitempty"`
	LinkedIn   string         `json:"linkedin,omitempty"`
	Website    string         `json:"website,omitempty"`
	Company    string         `json:"company,omitempty"`
}

// Resolved checks if the identity carries a GitHub profile
func (i Identity) Resolved() bool {
	return i.ProfileURL != ""
}

// CachedProfile is the persisted result of one API lookup. An all-empty
// value is a valid negative result and is stored like any other entry.
type CachedProfile struct {
	ProfileURL string `json:"profile_url,omitempty"`
	Name       string `json:"name,omitempty"`
	LinkedIn   string `json:"linkedin,omitempty"`
	Website    string `json:"website,omitempty"`
	Company    string `json:"company,omitempty"`
}
