// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Header constants
const (
	CacheControlHeaderKey     = "Cache-Control"
	CacheControlHeaderNoCache = "no-cache"

	ContentTypeHeaderKey = "Content-Type"
	ContentTypeJson      = "application/json"

	RequestIdHeaderKey = "X-Request-Id"
)

const HttpReadTimeout = 5 * time.Second
const HttpWriteTimeout = 21 * time.Second
const HttpMaxHeaderBytes = 60000
const HttpTimeoutDuration = 21 * time.Second
const HttpShutdownTimeout = 5 * time.Second

// InternalErrorMessage is the only detail a client gets for a 500
const InternalErrorMessage = "internal server error"

type WebFnType = func(http.ResponseWriter, *http.Request)

type WebFnOpts struct {
	AllowCaching bool
	JsonErrors   bool
}

// ErrorResponse is the error payload of the cid endpoints
type ErrorResponse struct {
	Error string `json:"Error"`
}

func WriteJson(w http.ResponseWriter, status int, data interface{}) {
	barr, err := json.Marshal(data)
	if err != nil {
		logrus.WithError(err).Error("[web] cannot marshal response")
		w.Header().Set(ContentTypeHeaderKey, ContentTypeJson)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"Error":"internal server error"}`))
		return
	}
	w.Header().Set(ContentTypeHeaderKey, ContentTypeJson)
	w.WriteHeader(status)
	w.Write(barr)
}

func WriteJsonError(w http.ResponseWriter, status int, msg string) {
	WriteJson(w, status, ErrorResponse{Error: msg})
}

func WriteJsonSuccess(w http.ResponseWriter, data interface{}) {
	rtnMap := make(map[string]interface{})
	rtnMap["success"] = true
	if data != nil {
		rtnMap["data"] = data
	}
	WriteJson(w, http.StatusOK, rtnMap)
}

// writeInternalError logs err against the request id and hides it from the client
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	logrus.WithError(err).WithField("reqid", r.Header.Get(RequestIdHeaderKey)).Error("[web] request failed")
	WriteJsonError(w, http.StatusInternalServerError, InternalErrorMessage)
}

func WebFnWrap(opts WebFnOpts, fn WebFnType) WebFnType {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logrus.WithField("reqid", r.Header.Get(RequestIdHeaderKey)).Errorf("[web] panic in handler: %v", rec)
				if opts.JsonErrors {
					WriteJsonError(w, http.StatusInternalServerError, InternalErrorMessage)
				} else {
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}
		}()
		if !opts.AllowCaching {
			w.Header().Set(CacheControlHeaderKey, CacheControlHeaderNoCache)
		}
		fn(w, r)
	}
}

// requestIdHandler tags the request and the response with a fresh uuid so the
// access log line and any handler log can be correlated.
func requestIdHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqId := uuid.New().String()
		r.Header.Set(RequestIdHeaderKey, reqId)
		w.Header().Set(RequestIdHeaderKey, reqId)
		next.ServeHTTP(w, r)
	})
}

func logRequest(_ io.Writer, params handlers.LogFormatterParams) {
	logrus.WithFields(logrus.Fields{
		"reqid":  params.Request.Header.Get(RequestIdHeaderKey),
		"method": params.Request.Method,
		"path":   params.URL.Path,
		"status": params.StatusCode,
		"size":   params.Size,
		"dur":    time.Since(params.TimeStamp).String(),
	}).Info("[web] request")
}

// MakeHandler builds the full handler chain for the cid endpoints
func MakeHandler(store *CatalogStore, isDev bool) http.Handler {
	gr := mux.NewRouter()
	RegisterRoutes(gr, store)

	var handler http.Handler = http.TimeoutHandler(gr, HttpTimeoutDuration, "Timeout")
	handler = handlers.CompressHandler(handler)

	// In development mode, enable CORS
	if isDev {
		handler = handlers.CORS(handlers.AllowedOrigins([]string{"*"}))(handler)
	}
	handler = handlers.CustomLoggingHandler(io.Discard, handler, logRequest)
	return requestIdHandler(handler)
}

func MakeTCPListener(serviceName string, addr string) (net.Listener, error) {
	if addr == "" {
		addr = "127.0.0.1:0" // Use any available port
	}
	rtn, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("error creating listener at %v: %w", addr, err)
	}
	logrus.Infof("Server [%s] listening on %s", serviceName, rtn.Addr())
	return rtn, nil
}

// RunWebServer serves until ctx is canceled, then shuts down gracefully. It
// does not return before in-flight requests have drained or the shutdown
// timeout has passed.
// blocking
func RunWebServer(ctx context.Context, listener net.Listener, handler http.Handler) error {
	server := &http.Server{
		ReadTimeout:    HttpReadTimeout,
		WriteTimeout:   HttpWriteTimeout,
		MaxHeaderBytes: HttpMaxHeaderBytes,
		Handler:        handler,
	}
	serveDone := make(chan struct{})
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		select {
		case <-ctx.Done():
		case <-serveDone:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), HttpShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("[web] shutdown")
		}
	}()
	err := server.Serve(listener)
	close(serveDone)
	// Serve returns ErrServerClosed as soon as Shutdown starts
	<-shutdownDone
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
