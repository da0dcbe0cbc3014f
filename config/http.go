package config

import "time"

// RoutesConfig holds the redirect targets used by the route guards.
type RoutesConfig struct {
	SignInPath          string `env:"ROUTE_SIGN_IN" envDefault:"/signin"`
	CompleteProfilePath string `env:"ROUTE_COMPLETE_PROFILE" envDefault:"/complete-profile"`
	HomePath            string `env:"ROUTE_HOME" envDefault:"/"`
}

// HTTPConfig configures the gateway's listener.
type HTTPConfig struct {
	ListenAddr      string        `env:"HTTP_LISTEN_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Routes RoutesConfig
}
