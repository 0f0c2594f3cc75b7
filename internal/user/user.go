package user

// User is the credential record. Password holds the bcrypt hash and is
// blanked by sanitizeUser before any response serialization; the token pair
// and version never leave the server.
type User struct {
	ID           int     `json:"userId"`
	Email        string  `json:"email"`
	Password     string  `json:"password,omitempty"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Address      string  `json:"address"`
	AuthToken    *string `json:"-"`
	RefreshToken *string `json:"-"`
	TokenVersion int     `json:"-"`
	CreatedAt    string  `json:"createdAt,omitempty"`
	UpdatedAt    string  `json:"updatedAt,omitempty"`
}
