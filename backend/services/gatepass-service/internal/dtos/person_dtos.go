package dtos

// CreatePersonRequest registers someone the gate can later recognise.
type CreatePersonRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Phone string `json:"phone" validate:"required,e164"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

// UpdatePersonRequest is a partial profile patch. Role and premise
// affiliation are changed only through role assignment.
type UpdatePersonRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,e164"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}
