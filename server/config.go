package server

import (
	"net"
	"strconv"
	"time"

	"github.com/kbukum/voicenote/server/middleware"
	"github.com/kbukum/voicenote/validation"
)

// Config holds HTTP server configuration. Timeouts are in seconds.
type Config struct {
	Host         string                `yaml:"host" mapstructure:"host"`
	Port         int                   `yaml:"port" mapstructure:"port" validate:"gte=0,lte=65535"`
	ReadTimeout  int                   `yaml:"read_timeout" mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout int                   `yaml:"write_timeout" mapstructure:"write_timeout" validate:"gte=0"`
	IdleTimeout  int                   `yaml:"idle_timeout" mapstructure:"idle_timeout" validate:"gte=0"`
	MaxBodySize  string                `yaml:"max_body_size" mapstructure:"max_body_size"`
	CORS         middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`
}

// ApplyDefaults fills unset fields. The daemon serves editors on the same
// machine, so it binds loopback unless told otherwise.
func (c *Config) ApplyDefaults() {
	setDefault(&c.Host, "127.0.0.1")
	setDefault(&c.Port, 8080)
	setDefault(&c.ReadTimeout, 60)
	// A local recognizer run can take minutes on long recordings.
	setDefault(&c.WriteTimeout, 600)
	setDefault(&c.IdleTimeout, 120)
	setDefault(&c.MaxBodySize, "25MB")
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID}
	}
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}

// Validate checks ranges; messages name the config keys.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c)
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }
