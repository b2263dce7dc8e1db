package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/BrandonDHaskell/kiosk/internal/kiosk/service"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/types"
)

const (
	msgNoCredentials  = "Unauthorized: No valid credentials provided"
	msgInvalidToken   = "Unauthorized: Invalid Token"
	msgInvalidBody    = "Invalid request body"
	msgBlocked        = "Member is blocked"
	msgNotFound       = "Member not found"
	msgRotateNotFound = "MEMBER_NOT_FOUND"
	msgInvalidMember  = "Invalid member id"
	msgEmailRequired  = "Email is required"
	msgInternal       = "Internal Server Error"
)

var errBodyTooLarge = errors.New("request body too large")

func errorBody(msg string) types.ErrorResponse {
	return types.ErrorResponse{Success: false, Error: msg}
}

// classify maps a service error onto a status and body.  Anything it does
// not recognise is logged and reported as a bare 500.
func (s *Server) classify(r *http.Request, op string, err error) (int, any) {
	switch {
	case errors.Is(err, service.ErrCredentialRequired):
		return http.StatusBadRequest, types.BadRequestResponse{Error: service.ErrCredentialRequired.Error()}
	case errors.Is(err, service.ErrInvalidMemberID):
		return http.StatusBadRequest, errorBody(msgInvalidMember)
	case errors.Is(err, service.ErrEmailRequired):
		return http.StatusBadRequest, errorBody(msgEmailRequired)
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, errorBody(msgNoCredentials)
	case errors.Is(err, service.ErrMemberBlocked):
		return http.StatusForbidden, errorBody(msgBlocked)
	case errors.Is(err, service.ErrMemberNotFound):
		return http.StatusNotFound, errorBody(msgNotFound)
	}

	reqID := middleware.GetReqID(r.Context())
	if errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn(op+" timed out", "request_id", reqID, "error", err)
	} else {
		s.logger.Error(op+" failed", "request_id", reqID, "error", err)
	}
	return http.StatusInternalServerError, errorBody(msgInternal)
}

// respond writes v as JSON, or as a protobuf Struct when the reader spoke
// protobuf.
func (s *Server) respond(w http.ResponseWriter, useProto bool, status int, v any) {
	if !useProto {
		writeJSON(w, status, v)
		return
	}
	st, err := toStruct(v)
	if err != nil {
		s.logger.Error("encode protobuf response", "error", err)
		http.Error(w, "proto marshal error", http.StatusInternalServerError)
		return
	}
	writeProto(w, status, st)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody(msg))
}
