// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/ava-labs/banditdb/banditstore"
	"github.com/ava-labs/banditdb/utils/logging"
	"github.com/ava-labs/banditdb/utils/metric"
)

const (
	baseURL               = "/ext"
	serverShutdownTimeout = 10 * time.Second
)

// Server routes HTTP traffic to the bandit RPC service and the metrics
// endpoint.
type Server struct {
	log logging.Logger

	listenHost string
	listenPort uint16

	handler http.Handler
	srv     *http.Server
}

// New wires the RPC service, metrics handler, and middleware into a server
// listening on [host]:[port].
func New(
	log logging.Logger,
	store *banditstore.Store,
	gatherer prometheus.Gatherer,
	registerer prometheus.Registerer,
	host string,
	port uint16,
	allowedOrigins []string,
) (*Server, error) {
	interceptor, err := metric.NewAPIInterceptor("api", registerer)
	if err != nil {
		return nil, err
	}
	service, err := NewService(log, store, interceptor)
	if err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	router.Handle(baseURL+"/bandit", service)
	router.Handle(baseURL+"/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	log.Info("API created",
		zap.Strings("allowedOrigins", allowedOrigins),
	)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
	}).Handler(router)

	return &Server{
		log:        log,
		listenHost: host,
		listenPort: port,
		handler:    gziphandler.GzipHandler(corsHandler),
	}, nil
}

// Dispatch starts the server and blocks until it shuts down
func (s *Server) Dispatch() error {
	listenAddress := fmt.Sprintf("%s:%d", s.listenHost, s.listenPort)
	listener, err := net.Listen("tcp", listenAddress)
	if err != nil {
		return err
	}

	s.log.Info("HTTP API server listening",
		zap.String("address", listener.Addr().String()),
	)
	s.srv = &http.Server{Handler: s.handler}
	return s.srv.Serve(listener)
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
