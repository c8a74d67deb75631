package mailclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// DefaultAPIURL is the SendGrid v3 send endpoint.
const DefaultAPIURL = "https://api.sendgrid.com/v3/mail/send"

type Message struct {
	ToEmail string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

type MailClient interface {
	Send(ctx context.Context, msg Message) error
}

// SendGrid v3 payload

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Content          []content         `json:"content"`
}

type personalization struct {
	To      []address `json:"to"`
	Subject string    `json:"subject"`
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type mailClient struct {
	apiURL    string
	apiKey    string
	fromEmail string
	fromName  string
}

func NewMailClient(apiURL, apiKey, fromEmail, fromName string) MailClient {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return mailClient{
		apiURL:    apiURL,
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (client mailClient) Send(ctx context.Context, msg Message) error {
	payload := sendRequest{
		Personalizations: []personalization{{
			To:      []address{{Email: msg.ToEmail, Name: msg.ToName}},
			Subject: msg.Subject,
		}},
		From: address{Email: client.fromEmail, Name: client.fromName},
		Content: []content{
			{Type: "text/plain", Value: msg.Text},
			{Type: "text/html", Value: msg.HTML},
		},
	}

	setresp, err := resty.New().R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(client.apiKey).
		SetBody(payload).
		Post(client.apiURL)
	if err != nil {
		return err
	}

	switch setresp.StatusCode() {
	case http.StatusOK, http.StatusAccepted:
		return nil
	default:
		return fmt.Errorf("mail provider status: %d", setresp.StatusCode())
	}
}
