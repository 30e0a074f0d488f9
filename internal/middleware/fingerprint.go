package middleware

import (
	"apigateway/internal/http/header"
	"apigateway/internal/http/message"
	"apigateway/internal/version"
)

type Fingerprint struct {
	server string
}

func NewFingerprint() *Fingerprint {
	return &Fingerprint{server: version.ServerName()}
}

func (f *Fingerprint) HandleResponse(resp *message.Response) error {
	resp.Header().Set(header.Server, f.server)
	return nil
}
