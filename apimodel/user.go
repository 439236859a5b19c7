package apimodel

// User is the identity returned by the remote service for the current bearer.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`

	// PersonalDefaults pre-fill every assessment. Nil until the clinician has
	// saved them on the profile screen.
	PersonalDefaults *PersonalDefaults `json:"personal_defaults,omitempty"`
}

// PersonalDefaults are the fixed inputs (age, hypertension history) sent with
// every prediction. Both fields are optional on the wire.
type PersonalDefaults struct {
	Age               *float64 `json:"age,omitempty"`
	HighBloodPressure *int     `json:"high_blood_pressure,omitempty"` // 0 or 1
}

// RegisterRequest is the body of the registration call. The service does not
// return a token for it.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// AuthResponse is the result of the password-grant credential exchange.
type AuthResponse struct {
	// AccessToken is sent back as "Authorization: Bearer <access_token>".
	AccessToken string `json:"access_token"`
	// TokenType is always "bearer" for this service.
	TokenType string `json:"token_type"`
}
