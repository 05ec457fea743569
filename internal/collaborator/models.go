package collaborator

import "encoding/json"

// Links holds the optional external URLs of a project
type Links struct {
	GitHub string `json:"github"`
	Live   string `json:"live"`
}

// Project is a portfolio project as stored by the collaborator
type Project struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tech        []string `json:"tech"`
	Links       Links    `json:"links"`
}

// UnmarshalJSON accepts either "_id" or "id" as the record identity.
func (p *Project) UnmarshalJSON(data []byte) error {
	type alias Project
	aux := struct {
		*alias
		AltID string `json:"id"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = aux.AltID
	}
	return nil
}

// WorkExperience is a work history entry as stored by the collaborator
type WorkExperience struct {
	ID           string   `json:"_id"`
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Period       string   `json:"period"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Achievements []string `json:"achievements"`
}

// UnmarshalJSON accepts either "_id" or "id" as the record identity.
func (w *WorkExperience) UnmarshalJSON(data []byte) error {
	type alias WorkExperience
	aux := struct {
		*alias
		AltID string `json:"id"`
	}{alias: (*alias)(w)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if w.ID == "" {
		w.ID = aux.AltID
	}
	return nil
}

// NewProject is the body posted to create a project
type NewProject struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tech        []string `json:"tech"`
	Links       Links    `json:"links"`
}

// NewWorkExperience is the body posted to create a work experience
type NewWorkExperience struct {
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Period       string   `json:"period"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Achievements []string `json:"achievements"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}
