package middleware

import (
	"errors"
	"net"
	"testing"

	"apigateway/internal/http/header"
	"apigateway/internal/http/message"
	"apigateway/internal/version"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestForwardedFor_HandleRequest(t *testing.T) {
	tests := []struct {
		name         string
		addr         net.Addr
		prior        string
		expectedHost string
		expectError  bool
	}{
		{
			name:         "valid IPv4 address",
			addr:         &net.TCPAddr{IP: net.ParseIP("192.168.1.100"), Port: 8080},
			expectedHost: "192.168.1.100",
		},
		{
			name:         "valid IPv6 address",
			addr:         &net.TCPAddr{IP: net.ParseIP("2001:db8::ff00:42:8329"), Port: 8080},
			expectedHost: "2001:db8::ff00:42:8329",
		},
		{
			name:         "appends to existing chain",
			addr:         &net.TCPAddr{IP: net.ParseIP("10.0.0.2"), Port: 1234},
			prior:        "203.0.113.7",
			expectedHost: "203.0.113.7, 10.0.0.2",
		},
		{
			name:        "invalid address format",
			addr:        &net.UnixAddr{Name: "/tmp/socket", Net: "unix"},
			expectError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := message.NewRequest(message.MethodGet, "/")
			if tc.prior != "" {
				req.Header().Add(header.XForwardedFor, tc.prior)
			}

			err := NewForwardedFor(tc.addr).HandleRequest(req)

			if tc.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, []string{tc.expectedHost}, req.Header().Values(header.XForwardedFor))
		})
	}
}

func TestFingerprint_HandleResponse(t *testing.T) {
	tests := []struct {
		name     string
		existing string
	}{
		{name: "sets server header"},
		{name: "overwrites server header", existing: "nginx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := message.NewResponse(200, "OK")
			if tt.existing != "" {
				resp.Header().Add(header.Server, tt.existing)
			}

			err := NewFingerprint().HandleResponse(resp)

			assert.NoError(t, err)
			assert.Equal(t, []string{version.ServerName()}, resp.Header().Values(header.Server))
		})
	}
}

func TestHopByHop(t *testing.T) {
	req := message.NewRequest(message.MethodGet, "/")
	req.Header().Add(header.Host, "example.com")
	req.Header().Add(header.ProxyConnection, "keep-alive")
	req.Header().Add(header.KeepAlive, "timeout=5")
	req.Header().Add(header.Connection, "keep-alive")

	assert.NoError(t, NewHopByHop().HandleRequest(req))
	assert.False(t, req.Header().Contains(header.ProxyConnection))
	assert.False(t, req.Header().Contains(header.KeepAlive))
	assert.True(t, req.Header().Contains(header.Connection))
	assert.True(t, req.Header().Contains(header.Host))

	resp := message.NewResponse(200, "OK")
	resp.Header().Add(header.KeepAlive, "timeout=5")
	assert.NoError(t, NewHopByHop().HandleResponse(resp))
	assert.Equal(t, 0, resp.Header().Len())
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) ID() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func TestRequestID(t *testing.T) {
	errEntropy := errors.New("no entropy")

	tests := []struct {
		name       string
		incoming   string
		generated  string
		genErr     error
		expectedID string
		expectErr  bool
	}{
		{name: "generates missing id", generated: "0123abcd", expectedID: "0123abcd"},
		{name: "keeps client id", incoming: "client-42", expectedID: "client-42"},
		{name: "generator failure", genErr: errEntropy, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{}
			if tt.incoming == "" {
				gen.On("ID").Return(tt.generated, tt.genErr).Once()
			}
			rid := NewRequestID(gen)

			req := message.NewRequest(message.MethodGet, "/")
			if tt.incoming != "" {
				req.Header().Add(header.XRequestID, tt.incoming)
			}

			err := rid.HandleRequest(req)
			gen.AssertExpectations(t)
			if tt.expectErr {
				assert.ErrorIs(t, err, errEntropy)
				assert.Empty(t, rid.Current())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{tt.expectedID}, req.Header().Values(header.XRequestID))
			assert.Equal(t, tt.expectedID, rid.Current())

			resp := message.NewResponse(200, "OK")
			require.NoError(t, rid.HandleResponse(resp))
			assert.Equal(t, tt.expectedID, resp.Header().Value(header.XRequestID))
			assert.Empty(t, rid.Current())

			next := message.NewResponse(400, "Bad Request")
			require.NoError(t, rid.HandleResponse(next))
			assert.False(t, next.Header().Contains(header.XRequestID))
		})
	}
}
