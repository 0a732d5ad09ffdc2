package rest

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// typeformError is the body shape the form provider integration expects.
type typeformError struct {
	Error string `json:"error"`
}

type typeformStatus struct {
	Status string `json:"status"`
}
