package config

type Config struct {
	ServerAddr string
	// Debug exposes upstream error detail in 500 responses.
	Debug bool
}
