package handler

// ErrorResponse is the error envelope returned on every 4xx/5xx response.
// Fields is present only for validation failures.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// --- Request / Response types ---

type createUserRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
	Name     string `json:"name"     validate:"required,max=255"`
}

type userResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type referenceRequest struct {
	Name string `json:"name"`
}

type referenceResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// placeRequest uses pointers so absent fields can be told apart from empty
// ones. A JSON null is treated as absent.
type placeRequest struct {
	Name    *string  `json:"name"`
	Country *[]int64 `json:"country"`
	State   *[]int64 `json:"state"`
}

// placeResponse is the list/create/update shape: relations as id lists.
type placeResponse struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Country []int64 `json:"country"`
	State   []int64 `json:"state"`
}

// placeDetailResponse is the retrieve shape: relations expanded inline.
type placeDetailResponse struct {
	ID      int64               `json:"id"`
	Name    string              `json:"name"`
	Country []referenceResponse `json:"country"`
	State   []referenceResponse `json:"state"`
}
