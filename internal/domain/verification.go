package domain

// Verification purposes. At most one active entry per (email, purpose);
// a new request overwrites the previous one.
const (
	PurposeReset  = "reset"
	PurposeVerify = "verify"
)

// Verification stores a pending one-time code.
// PK: email, SK: purpose ("reset" | "verify").
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
// Verified is set server-side once the code was validated, so the
// password-change step never has to trust client-held state.
type Verification struct {
	Email     string `json:"email" dynamodbav:"email"`
	Purpose   string `json:"purpose" dynamodbav:"purpose"`
	Code      string `json:"code" dynamodbav:"code"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
	Verified  bool   `json:"verified" dynamodbav:"verified"`
}
