package models

// EmailMetadata represents the envelope fields of a message as shown in a
// notification. Fields that could not be decoded hold placeholder text
// rather than being empty.
type EmailMetadata struct {
	UID     uint32
	From    string
	Subject string
	Date    string
	TraceID string
}
