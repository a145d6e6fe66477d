package model

// Profile is the signed-in user. It is stored between sessions and
// supplies the sender identity for drafts.
type Profile struct {
	Name               string `json:"name"`
	Picture            string `json:"picture,omitempty"`
	JobTitle           string `json:"jobTitle,omitempty"`
	Company            string `json:"company,omitempty"`
	Email              string `json:"email,omitempty"`
	CompanyDescription string `json:"companyDescription,omitempty"`
}

// Sender converts the profile into the sender block of a draft.
func (p Profile) Sender() Sender {
	return Sender{
		Name:               p.Name,
		Title:              p.JobTitle,
		Company:            p.Company,
		CompanyDescription: p.CompanyDescription,
	}
}
