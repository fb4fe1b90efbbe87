package types

// Project is one ODK Central project as returned by /v1/projects.
// Fields absent from the response decode to their zero values.
type Project struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
	Forms    int    `json:"forms"`
}

// Form is one form definition inside a project. ODK Central identifies forms
// by their xmlFormId, not a numeric key.
type Form struct {
	XMLFormID string `json:"xmlFormId"`
	Name      string `json:"name"`
	Version   string `json:"version"`
	State     string `json:"state"`
}
