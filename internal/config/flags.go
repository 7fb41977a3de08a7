package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-app-key application secret key (TOTP envelope derivation)
//	-session-sign-key session token signing key
//	-session-issuer session token issuer name
//	-session-lifetime session inactivity timeout (e.g., "30m")
//	-lockout-threshold failed attempts before lockout
//	-lockout-duration lockout cool-down (e.g., "15m")
//	-totp-issuer issuer label for otpauth URIs
//	-audit-webhook-url external audit collector URL
//	-request-timeout request timeout (e.g., "30s", "1m")
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var appKey string
	var sessionSignKey string
	var sessionIssuer string
	var sessionLifetime time.Duration
	var lockoutThreshold int
	var lockoutDuration time.Duration
	var totpIssuer string
	var auditWebhookURL string
	var requestTimeout time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&appKey, "app-key", "", "Application secret key")
	flag.StringVar(&sessionSignKey, "session-sign-key", "", "Session token signing key")
	flag.StringVar(&sessionIssuer, "session-issuer", "", "Session token issuer")
	flag.DurationVar(&sessionLifetime, "session-lifetime", 0, "Session inactivity timeout (e.g., 30m)")
	flag.IntVar(&lockoutThreshold, "lockout-threshold", 0, "Failed attempts before lockout")
	flag.DurationVar(&lockoutDuration, "lockout-duration", 0, "Lockout cool-down (e.g., 15m)")
	flag.StringVar(&totpIssuer, "totp-issuer", "", "Issuer label for otpauth URIs")
	flag.StringVar(&auditWebhookURL, "audit-webhook-url", "", "External audit collector URL")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			Key:              appKey,
			SessionSignKey:   sessionSignKey,
			SessionIssuer:    sessionIssuer,
			SessionLifetime:  sessionLifetime,
			LockoutThreshold: lockoutThreshold,
			LockoutDuration:  lockoutDuration,
			TotpIssuer:       totpIssuer,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			AuditWebhookURL: auditWebhookURL,
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
