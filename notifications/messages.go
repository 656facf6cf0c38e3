package notifications

import (
	"github.com/pawtrail/pawtrail-api/domain"
)

type Message struct {
	Template  string
	Data      map[string]any
	Body      string
	FromName  string
	FromEmail string
	ToName    string
	ToEmail   string
	Subject   string
}

// NewEmailMessage returns a message with the FromEmail, the Data.appName and Data.uiURL already set
func NewEmailMessage() Message {
	msg := Message{
		FromEmail: domain.EmailFromAddress(nil),
		Data: map[string]any{
			"appName": domain.Env.AppName,
			"uiURL":   domain.Env.UIURL,
		},
	}
	return msg
}
