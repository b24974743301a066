package middleware

import (
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/sandesh691/agribid-sub001/internal/redis"
	"github.com/sandesh691/agribid-sub001/internal/server"
)

type Middlewares struct {
	Global          *Global
	ContextEnhancer *ContextEnhancer
	Tracing         *Tracing
	Auth            *Auth
	RateLimit       *RateLimit
}

func NewMiddlewares(s *server.Server, redisClient *redis.Client) *Middlewares {

	var nrApp *newrelic.Application

	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobal(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracing(nrApp),
		Auth:            NewAuth(s.Config.Auth.JWTSecret, s.Config.Auth.SessionCookie),
		RateLimit:       NewRateLimit(redisClient),
	}
}
