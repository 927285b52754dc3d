package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const EmailPurposeResetPassword = "resetPassword"

// EmailLog records an email sent to a user.
type EmailLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Purpose   string             `bson:"purpose" json:"purpose"`
	MessageID string             `bson:"messageId" json:"messageId"` // Message-ID header, matches SMTP server logs
	ToEmail   string             `bson:"toEmail" json:"toEmail"`
	Subject   string             `bson:"subject" json:"subject"`
	SentAt    time.Time          `bson:"sentAt" json:"sentAt"`
}
