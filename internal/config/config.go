package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	Razorpay Razorpay `envPrefix:"RAZORPAY_"`
	Gemini   Gemini   `envPrefix:"GEMINI_"`
	Auth     Auth     `envPrefix:"AUTH_"`
	Credits  Credits  `envPrefix:"CREDITS_"`
}

type Razorpay struct {
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type Gemini struct {
	BaseApiURL string `env:"BASE_API_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	APIKey     string `env:"API_KEY"`
	Model      string `env:"MODEL" envDefault:"gemini-2.5-flash-image"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type Credits struct {
	SignupBonus int `env:"SIGNUP_BONUS" envDefault:"10"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
