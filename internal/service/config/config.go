package config

type Config struct {
	MailAPIURL string
	// MailAPIKey empty means sends are simulated and only logged.
	MailAPIKey string
	FromEmail  string
	FromName   string
	SiteURL    string
}
