package domain

// IdentitySource records how an identity was proven.
const (
	IdentitySourceOTP   = "otp"
	IdentitySourceOAuth = "oauth"
)

// VerifiedIdentity is the value the verification engine hands to the
// registration gate and the login handlers. OTP-sourced identities carry only
// the email; OAuth-sourced ones also carry the names asserted by the token.
// It is never persisted.
type VerifiedIdentity struct {
	Email     string
	FirstName string
	LastName  string
	Source    string
}
