package dto

// UserAttributes represents user attributes in API responses.
type UserAttributes struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserData represents a user in JSON:API format.
type UserData struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Attributes UserAttributes `json:"attributes"`
}

// UserResponse represents a single user.
type UserResponse struct {
	Data UserData `json:"data"`
}

// UserCreateData represents the data for creating a user.
type UserCreateData struct {
	Type       string         `json:"type"`
	Attributes UserAttributes `json:"attributes"`
}

// UserCreateRequest represents a request to create a user.
type UserCreateRequest struct {
	Data UserCreateData `json:"data"`
}
