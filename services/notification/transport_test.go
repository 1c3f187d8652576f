package notification

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubTransport struct {
	endpoint    string
	implicitTLS bool
	sendErr     error
	sent        int
}

func (t *stubTransport) Send(ctx context.Context, msg *mail.Msg) error {
	t.sent++
	return t.sendErr
}

func (t *stubTransport) Endpoint() string { return t.endpoint }

func (t *stubTransport) ImplicitTLS() bool { return t.implicitTLS }

func testRelayConfig() RelayConfig {
	return RelayConfig{
		Host:     "mail.example.com",
		Port:     587,
		Username: "office@putzelf.com",
		Password: "secret",
	}
}

func TestResolverMissingConfig(t *testing.T) {
	verifyCalls := 0
	r := NewTransportResolver(RelayConfig{Port: 587}, zap.NewNop())
	r.verify = func(ctx context.Context, host string, implicitTLS bool) (Transport, error) {
		verifyCalls++
		return nil, nil
	}

	_, err := r.Transport(context.Background())

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.ElementsMatch(t, []string{"SMTP_HOST", "SMTP_USER", "SMTP_PASS"}, cfgErr.Missing)
	// Configuration problems must be detectable without any network attempt.
	assert.Zero(t, verifyCalls)
}

func TestResolverHostnameSucceeds(t *testing.T) {
	lookupCalls := 0
	r := NewTransportResolver(testRelayConfig(), zap.NewNop())
	r.verify = func(ctx context.Context, host string, implicitTLS bool) (Transport, error) {
		return &stubTransport{endpoint: host, implicitTLS: implicitTLS}, nil
	}
	r.lookupIPv4 = func(ctx context.Context, host string) (string, error) {
		lookupCalls++
		return "192.0.2.10", nil
	}

	transport, err := r.Transport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mail.example.com", transport.Endpoint())
	assert.Zero(t, lookupCalls)
}

func TestResolverFallsBackToIPv4Literal(t *testing.T) {
	var verifyCalls, lookupCalls int
	r := NewTransportResolver(testRelayConfig(), zap.NewNop())
	r.verify = func(ctx context.Context, host string, implicitTLS bool) (Transport, error) {
		verifyCalls++
		if host == "mail.example.com" {
			return nil, errors.New("tls handshake failed")
		}
		return &stubTransport{endpoint: host, implicitTLS: implicitTLS}, nil
	}
	r.lookupIPv4 = func(ctx context.Context, host string) (string, error) {
		lookupCalls++
		return "192.0.2.10", nil
	}

	transport, err := r.Transport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.10", transport.Endpoint())
	assert.Equal(t, 2, verifyCalls)
	assert.Equal(t, 1, lookupCalls)

	// Subsequent calls reuse the literal without re-resolving.
	again, err := r.Transport(context.Background())
	require.NoError(t, err)
	assert.Same(t, transport, again)
	assert.Equal(t, 2, verifyCalls)
	assert.Equal(t, 1, lookupCalls)
}

func TestResolverBothAttemptsFail(t *testing.T) {
	hostErr := errors.New("hostname refused")
	literalErr := errors.New("literal refused")
	r := NewTransportResolver(testRelayConfig(), zap.NewNop())
	r.verify = func(ctx context.Context, host string, implicitTLS bool) (Transport, error) {
		if host == "mail.example.com" {
			return nil, hostErr
		}
		return nil, literalErr
	}
	r.lookupIPv4 = func(ctx context.Context, host string) (string, error) {
		return "192.0.2.10", nil
	}

	_, err := r.Transport(context.Background())

	var resErr *TransportResolutionError
	require.ErrorAs(t, err, &resErr)
	// The second (IPv4-literal) failure is the one surfaced.
	assert.Equal(t, "192.0.2.10", resErr.Endpoint)
	assert.ErrorIs(t, err, literalErr)
	assert.NotErrorIs(t, err, hostErr)

	// The failure is cached for the remainder of the process.
	_, err2 := r.Transport(context.Background())
	assert.Equal(t, err, err2)
}

func TestResolverLookupFailure(t *testing.T) {
	lookupErr := errors.New("no such host")
	r := NewTransportResolver(testRelayConfig(), zap.NewNop())
	r.verify = func(ctx context.Context, host string, implicitTLS bool) (Transport, error) {
		return nil, errors.New("hostname refused")
	}
	r.lookupIPv4 = func(ctx context.Context, host string) (string, error) {
		return "", lookupErr
	}

	_, err := r.Transport(context.Background())

	var resErr *TransportResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.ErrorIs(t, err, lookupErr)
}

func TestResolverSecurityMode(t *testing.T) {
	tests := []struct {
		name        string
		port        int
		implicitTLS bool
		want        bool
	}{
		{"implicit TLS port requires implicit TLS", 465, false, true},
		{"implicit TLS port with flag", 465, true, true},
		{"submission port uses STARTTLS", 587, false, false},
		{"implicit TLS on submission port downgrades", 587, true, false},
		{"implicit TLS on alternate port downgrades", 2525, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testRelayConfig()
			cfg.Port = tt.port
			cfg.ImplicitTLS = tt.implicitTLS

			r := NewTransportResolver(cfg, zap.NewNop())
			r.verify = func(ctx context.Context, host string, implicitTLS bool) (Transport, error) {
				return &stubTransport{endpoint: host, implicitTLS: implicitTLS}, nil
			}

			transport, err := r.Transport(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, transport.ImplicitTLS())
		})
	}
}

func TestResolverWarnsOnImplicitTLSDowngrade(t *testing.T) {
	for _, port := range []int{587, 2525} {
		core, logs := observer.New(zapcore.WarnLevel)
		cfg := testRelayConfig()
		cfg.Port = port
		cfg.ImplicitTLS = true

		r := NewTransportResolver(cfg, zap.New(core))
		r.verify = func(ctx context.Context, host string, implicitTLS bool) (Transport, error) {
			return &stubTransport{endpoint: host, implicitTLS: implicitTLS}, nil
		}

		transport, err := r.Transport(context.Background())
		require.NoError(t, err)
		assert.False(t, transport.ImplicitTLS(), "port %d", port)
		require.Equal(t, 1, logs.Len(), "port %d", port)
		assert.Contains(t, logs.All()[0].Message, "downgrading", "port %d", port)
	}
}

func TestResolverDetachedFromFirstCallerCancellation(t *testing.T) {
	r := NewTransportResolver(testRelayConfig(), zap.NewNop())
	r.verify = func(ctx context.Context, host string, implicitTLS bool) (Transport, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &stubTransport{endpoint: host}, nil
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	// A client disconnect on the triggering request must not end up cached as
	// a permanent resolution failure.
	transport, err := r.Transport(cancelled)
	require.NoError(t, err)
	require.NotNil(t, transport)

	again, err := r.Transport(context.Background())
	require.NoError(t, err)
	assert.Same(t, transport, again)
}

func TestResolverConcurrentCallersShareOneResolution(t *testing.T) {
	var verifyCalls int32
	r := NewTransportResolver(testRelayConfig(), zap.NewNop())
	r.verify = func(ctx context.Context, host string, implicitTLS bool) (Transport, error) {
		atomic.AddInt32(&verifyCalls, 1)
		time.Sleep(20 * time.Millisecond)
		return &stubTransport{endpoint: host}, nil
	}

	var wg sync.WaitGroup
	transports := make([]Transport, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			transport, err := r.Transport(context.Background())
			require.NoError(t, err)
			transports[i] = transport
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&verifyCalls))
	for _, transport := range transports {
		assert.Same(t, transports[0], transport)
	}
}

func TestRelayConfigDefaults(t *testing.T) {
	cfg := RelayConfig{Host: "mail.example.com", Username: "u", Password: "p"}.withDefaults()
	assert.Equal(t, opportunisticPort, cfg.Port)
	assert.Equal(t, defaultRelayTimeout, cfg.ConnectTimeout)
	assert.Equal(t, defaultRelayTimeout, cfg.GreetingTimeout)
	assert.Equal(t, defaultRelayTimeout, cfg.SendTimeout)
}
