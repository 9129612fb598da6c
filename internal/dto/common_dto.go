package dto

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Hint    string   `json:"hint,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

type HealthResponse struct {
	API             string            `json:"api"`
	Timestamp       string            `json:"timestamp"`
	Bindings        map[string]string `json:"bindings"`
	EnvVars         map[string]string `json:"env_vars"`
	Database        string            `json:"database,omitempty"`
	ComplaintsTable string            `json:"complaintsTable,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AdminUser struct {
	Username string `json:"username"`
}

type LoginResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	User      AdminUser `json:"user"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt int64     `json:"expires_at,omitempty"`
}

type LoginFailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
