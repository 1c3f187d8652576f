package notification

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// implicitTLSPort is the conventional SMTPS port; connecting to it requires
// TLS from the first byte. Every other port negotiates STARTTLS.
const implicitTLSPort = 465

// opportunisticPort is the conventional submission port for STARTTLS.
const opportunisticPort = 587

const defaultRelayTimeout = 30 * time.Second

// RelayConfig describes the outbound mail relay.
type RelayConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// ImplicitTLS requests TLS from the first byte. It is implied by port 465
	// and downgraded (with a warning) when requested on any other port.
	ImplicitTLS bool

	// Each timeout bounds one phase of relay traffic. Zero values fall back
	// to 30 seconds.
	ConnectTimeout  time.Duration
	GreetingTimeout time.Duration
	SendTimeout     time.Duration
}

func (c RelayConfig) missing() []string {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if c.Username == "" {
		missing = append(missing, "SMTP_USER")
	}
	if c.Password == "" {
		missing = append(missing, "SMTP_PASS")
	}
	return missing
}

func (c RelayConfig) withDefaults() RelayConfig {
	if c.Port == 0 {
		c.Port = opportunisticPort
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = defaultRelayTimeout
	}
	if c.GreetingTimeout <= 0 {
		c.GreetingTimeout = defaultRelayTimeout
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = defaultRelayTimeout
	}
	return c
}

// Transport is a verified handle able to deliver a rendered message.
type Transport interface {
	Send(ctx context.Context, msg *mail.Msg) error
	// Endpoint is the hostname or literal address actually in use.
	Endpoint() string
	// ImplicitTLS reports the negotiated security mode: true for TLS from
	// the first byte, false for opportunistic upgrade.
	ImplicitTLS() bool
}

// TransportResolver resolves the relay into a ready Transport at most once
// per process. The first caller performs resolution; concurrent callers wait
// for that single attempt. Both outcomes are cached: after a success sends
// reuse the handle, after a failure every caller gets the cached error until
// the process restarts. Re-resolution, if ever wanted, means wiring in a
// fresh resolver.
type TransportResolver struct {
	cfg    RelayConfig
	logger *zap.Logger

	once      sync.Once
	transport Transport
	err       error

	// Seams replaced in tests to avoid network access.
	verify     func(ctx context.Context, host string, implicitTLS bool) (Transport, error)
	lookupIPv4 func(ctx context.Context, host string) (string, error)
}

// NewTransportResolver builds a resolver for the given relay configuration.
func NewTransportResolver(cfg RelayConfig, logger *zap.Logger) *TransportResolver {
	r := &TransportResolver{
		cfg:    cfg.withDefaults(),
		logger: logger,
	}
	r.verify = r.verifyRelay
	r.lookupIPv4 = lookupIPv4
	return r
}

// Transport returns the process-wide transport handle, resolving it on first
// use.
func (r *TransportResolver) Transport(ctx context.Context) (Transport, error) {
	r.once.Do(func() {
		// The outcome is cached for the whole process, so it must reflect the
		// relay's health rather than the first caller's deadline. Resolution
		// is bounded by the relay timeouts, never by the triggering request:
		// a cancelled confirmation must not poison the cache.
		r.transport, r.err = r.resolve(context.WithoutCancel(ctx))
	})
	return r.transport, r.err
}

func (r *TransportResolver) resolve(ctx context.Context) (Transport, error) {
	if missing := r.cfg.missing(); len(missing) > 0 {
		return nil, &ConfigurationError{Missing: missing}
	}

	implicitTLS := r.cfg.Port == implicitTLSPort
	if r.cfg.ImplicitTLS && !implicitTLS {
		r.logger.Warn("implicit TLS requested on a STARTTLS port, downgrading to opportunistic upgrade",
			zap.String("host", r.cfg.Host),
			zap.Int("port", r.cfg.Port),
		)
	}

	t, err := r.verify(ctx, r.cfg.Host, implicitTLS)
	if err == nil {
		r.logger.Info("mail relay resolved",
			zap.String("endpoint", t.Endpoint()),
			zap.Int("port", r.cfg.Port),
			zap.Bool("implicit_tls", implicitTLS),
		)
		return t, nil
	}
	r.logger.Warn("mail relay verification failed by hostname, retrying against IPv4 literal",
		zap.String("host", r.cfg.Host),
		zap.Error(err),
	)

	lookupCtx, cancel := context.WithTimeout(ctx, r.cfg.ConnectTimeout)
	addr, lookupErr := r.lookupIPv4(lookupCtx, r.cfg.Host)
	cancel()
	if lookupErr != nil {
		return nil, &TransportResolutionError{Endpoint: r.cfg.Host, Err: lookupErr}
	}

	t, retryErr := r.verify(ctx, addr, implicitTLS)
	if retryErr != nil {
		// The IPv4-literal failure is the one surfaced; the hostname failure
		// was already logged above.
		return nil, &TransportResolutionError{Endpoint: addr, Err: retryErr}
	}
	r.logger.Info("mail relay resolved via IPv4 literal",
		zap.String("endpoint", addr),
		zap.String("host", r.cfg.Host),
		zap.Bool("implicit_tls", implicitTLS),
	)
	return t, nil
}

// verifyRelay dials and greets the relay at host, then closes the session.
// A transport is only handed out once this round trip succeeds.
func (r *TransportResolver) verifyRelay(ctx context.Context, host string, implicitTLS bool) (Transport, error) {
	t := &smtpTransport{cfg: r.cfg, host: host, implicitTLS: implicitTLS}
	client, err := t.newClient()
	if err != nil {
		return nil, err
	}

	dialCtx, cancel := context.WithTimeout(ctx, r.cfg.ConnectTimeout+r.cfg.GreetingTimeout)
	defer cancel()
	if err := client.DialWithContext(dialCtx); err != nil {
		return nil, err
	}
	if err := client.Close(); err != nil {
		r.logger.Debug("closing verification session", zap.Error(err))
	}
	return t, nil
}

func lookupIPv4(ctx context.Context, host string) (string, error) {
	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		return "", err
	}
	if len(ips) == 0 {
		return "", fmt.Errorf("no IPv4 address for %s", host)
	}
	return ips[0].String(), nil
}

// smtpTransport sends through the resolved endpoint. Each send dials its own
// session, so sends across bookings run concurrently without shared locks.
type smtpTransport struct {
	cfg         RelayConfig
	host        string
	implicitTLS bool
}

func (t *smtpTransport) Endpoint() string { return t.host }

func (t *smtpTransport) ImplicitTLS() bool { return t.implicitTLS }

func (t *smtpTransport) newClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(t.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(t.cfg.Username),
		mail.WithPassword(t.cfg.Password),
		mail.WithTimeout(t.cfg.SendTimeout),
		// Certificate verification stays pinned to the configured hostname
		// even when dialing an IPv4 literal.
		mail.WithTLSConfig(&tls.Config{
			ServerName: t.cfg.Host,
			MinVersion: tls.VersionTLS12,
		}),
	}
	if t.implicitTLS {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	return mail.NewClient(t.host, opts...)
}

func (t *smtpTransport) Send(ctx context.Context, msg *mail.Msg) error {
	client, err := t.newClient()
	if err != nil {
		return err
	}
	sendCtx, cancel := context.WithTimeout(ctx, t.cfg.ConnectTimeout+t.cfg.GreetingTimeout+t.cfg.SendTimeout)
	defer cancel()
	return client.DialAndSendWithContext(sendCtx, msg)
}
