package config

import (
	"errors"
	"io/fs"
	"time"
)

// ServerConfiguration contains the http server settings
type ServerConfiguration struct {
	Port      int
	Address   string
	CSRFToken string `mapstructure:"csrf-token" json:"-"`
}

// SMTPConfiguration contains the outbound email settings
type SMTPConfiguration struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string `json:"-"`
	// DisplayName will be displayed as email sender
	DisplayName string `mapstructure:"display-name"`
	// Address is the sender address
	Address string
}

// DatabaseConfiguration contains the settings required to connect to a database
type DatabaseConfiguration struct {
	Type string
	DSN  string `json:"-"`
}

// BehaviourConfiguration configures how the service will behave
type BehaviourConfiguration struct {
	Name string
	Site string
	// ServiceDomain is used to build links embedded in outgoing emails
	ServiceDomain string `mapstructure:"service-domain"`
	// InviteExpiry is the window in which a tour invitation may be redeemed
	InviteExpiry time.Duration `mapstructure:"invite-expiry"`
	// MaxInviteEmails bounds how many addresses a single send may contain
	MaxInviteEmails int `mapstructure:"max-invite-emails"`
	// MaxInviteInputLength bounds the raw recipient input before parsing
	MaxInviteInputLength int `mapstructure:"max-invite-input-length"`
}

// SessionConfiguration holds the settings to verify session tokens
// issued by the magic-link sign-in front
type SessionConfiguration struct {
	Algorithm      string `mapstructure:"alg"`
	HMACSigningKey string `mapstructure:"hmac-signing-key" json:"-"`
	Issuer         string `mapstructure:"iss"`
}

// RateLimitConfiguration bounds how often invitations may be sent per identity
type RateLimitConfiguration struct {
	InviteRequests int           `mapstructure:"invite-requests"`
	InviteWindow   time.Duration `mapstructure:"invite-window"`
}

// CORSConfiguration very basic cors configuration
type CORSConfiguration struct {
	AllowCredentials bool     `mapstructure:"allow-credentials"`
	AllowedMethods   []string `mapstructure:"allowed-methods"`
	AllowedOrigins   []string `mapstructure:"allowed-origins"`
}

// ManageEndpointConfiguration toggles the admin listing endpoints
type ManageEndpointConfiguration struct {
	Enable bool
	CORS   *CORSConfiguration
}

// FileSystems contains the used file systems
type FileSystems struct {
	Email fs.FS
}

// Configuration habours the entire plantour configuration
type Configuration struct {
	Server         *ServerConfiguration         `mapstructure:"server"`
	SMTP           *SMTPConfiguration           `mapstructure:"smtp"`
	Database       *DatabaseConfiguration       `mapstructure:"database"`
	Behaviour      *BehaviourConfiguration      `mapstructure:"behaviour"`
	Session        *SessionConfiguration        `mapstructure:"session"`
	RateLimit      *RateLimitConfiguration      `mapstructure:"rate-limit"`
	ManageEndpoint *ManageEndpointConfiguration `mapstructure:"manage-endpoint"`
}

// Validate does some basic validation of the config file and tries
// to be helpful on missconfiguration
func (c *Configuration) Validate() error {
	if c.Database == nil {
		return errors.New("no database configuration found")
	}
	if c.Database.Type == "" || c.Database.DSN == "" {
		return errors.New("database.type and database.dsn are required")
	}
	if c.SMTP == nil {
		return errors.New("no SMTP configuration found")
	}
	if c.Behaviour == nil {
		return errors.New("no behaviour configuration found")
	}
	if c.Behaviour.InviteExpiry <= 0 {
		return errors.New("behaviour.invite-expiry has to be a positive duration")
	}
	if c.Session == nil {
		return errors.New("no session configuration found")
	}
	switch c.Session.Algorithm {
	case "HS256", "HS384", "HS512":
		if c.Session.HMACSigningKey == "" {
			return errors.New(
				"when using session.alg HS256, HS384, HS512 you need to define hmac-signing-key",
			)
		}
	default:
		return errors.New("unsupported session.alg, use HS256, HS384 or HS512")
	}
	return nil
}
