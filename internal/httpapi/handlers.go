package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/BrandonDHaskell/kiosk/internal/kiosk/auth"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/service"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/types"
)

// handleValidate authenticates before touching the body, so an
// unauthenticated caller gets 401 whatever it sent.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	useProto := isProtobuf(r)
	reply := func(status int, v any) { s.respond(w, useProto, status, v) }

	caller, err := s.auth.Authenticate(r.Header)
	if err != nil {
		reply(http.StatusUnauthorized, errorBody(msgInvalidToken))
		return
	}
	if !caller.Authenticated() {
		reply(http.StatusUnauthorized, errorBody(msgNoCredentials))
		return
	}

	var req types.ValidateRequest
	if useProto {
		var st structpb.Struct
		if err := readProto(r, &st); err != nil {
			reply(http.StatusBadRequest, errorBody(msgInvalidBody))
			return
		}
		req, err = validateRequestFromStruct(&st)
	} else {
		err = decodeJSON(r, &req)
	}
	if err != nil {
		reply(http.StatusBadRequest, errorBody(msgInvalidBody))
		return
	}

	resp, err := s.access.Validate(r.Context(), caller, req)
	if err != nil {
		status, body := s.classify(r, "validate", err)
		reply(status, body)
		return
	}
	reply(http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := s.history.ListCheckins(r.Context(), q.Get("page"), q.Get("limit"))
	if err != nil {
		status, body := s.classify(r, "history", err)
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRotate(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")
	resp, err := s.credentials.Rotate(r.Context(), memberID)
	if errors.Is(err, service.ErrMemberNotFound) {
		writeError(w, http.StatusNotFound, msgRotateNotFound)
		return
	}
	if err != nil {
		status, body := s.classify(r, "rotate", err)
		writeJSON(w, status, body)
		return
	}

	caller, _ := callerFrom(r.Context())
	s.logger.Info("credential rotated", "member_id", memberID, "by", caller.Subject)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	resp, err := s.credentials.FindByEmail(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		status, body := s.classify(r, "lookup", err)
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// requireAdministrator admits only callers holding a valid bearer token.
// The device key is not enough.
func (s *Server) requireAdministrator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := s.auth.Administrator(r.Header)
		if err != nil {
			writeError(w, http.StatusUnauthorized, msgInvalidToken)
			return
		}
		if caller.Kind != auth.Administrative {
			writeError(w, http.StatusUnauthorized, msgNoCredentials)
			return
		}
		next.ServeHTTP(w, r.WithContext(withCaller(r.Context(), caller)))
	})
}

// decodeJSON decodes a size-capped body into v.  An empty body decodes as
// an empty object.
func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody+1))
	if err != nil {
		return err
	}
	if len(body) > maxRequestBody {
		return errBodyTooLarge
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}
