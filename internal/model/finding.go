package model

// EntityKind identifies a class of sensitive information, e.g. "EMAIL_ADDRESS".
type EntityKind string

// Built-in entity kinds.
const (
	EntityEmailAddress EntityKind = "EMAIL_ADDRESS"
	EntityPhoneNumber  EntityKind = "PHONE_NUMBER"
	EntityCreditCard   EntityKind = "CREDIT_CARD"
	EntityIBANCode     EntityKind = "IBAN_CODE"
	EntityIPAddress    EntityKind = "IP_ADDRESS"
	EntityUSSSN        EntityKind = "US_SSN"
	EntityURL          EntityKind = "URL"
	EntityCrypto       EntityKind = "CRYPTO"
	EntitySecretKey    EntityKind = "SECRET_KEY"
)

// EntityFinding is one detected span inside a document's text.
// Findings are informational and are not persisted.
type EntityFinding struct {
	Kind EntityKind `json:"kind"`

	// Text is the matched span, Text == source[Start:End].
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`

	// Score is the recognizer's confidence in [0, 1].
	Score float64 `json:"score"`

	DocumentID string `json:"document_id"`
	Author     string `json:"author"`
}
