package middleware

import (
	"apigateway/internal/http/message"
)

type RequestMiddleware interface {
	HandleRequest(req *message.Request) error
}

type ResponseMiddleware interface {
	HandleResponse(resp *message.Response) error
}
