package controllers

import (
	"bytes"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/giftconnect/giftconnect-backend/api/middleware"
	"github.com/giftconnect/giftconnect-backend/api/validators"
	pkgerrors "github.com/giftconnect/giftconnect-backend/pkg/errors"
	"github.com/giftconnect/giftconnect-backend/pkg/types"
)

func requireActor(r *http.Request) (types.Actor, error) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return types.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
	}
	return actor, nil
}

func pathID(r *http.Request) (int64, error) {
	return validators.ParseID(chi.URLParam(r, "id"), "id")
}

// decodeOptionalBody treats a missing or blank body as an empty object.
func decodeOptionalBody(r *http.Request, dest any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, validators.MaxBodyBytes+1))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	return validators.DecodeJSONBody(r, dest)
}
