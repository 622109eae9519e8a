package api

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"zackiepharma/m/internal/reports"
	"zackiepharma/m/internal/sales"
	"zackiepharma/m/internal/store"
)

var validate = newValidator()

// badRequest is a malformed or invalid request body or parameter.
type badRequest struct {
	msg string
}

func (e *badRequest) Error() string {
	return e.msg
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage renders the first failed rule of err for a user notice.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "gte", "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

// bind decodes a JSON body into dest and validates it.
func bind(r *http.Request, dest interface{}) error {
	if err := decodeJSON(r, dest); err != nil {
		return &badRequest{msg: "invalid request body: " + err.Error()}
	}
	if err := validate.Struct(dest); err != nil {
		return &badRequest{msg: validationMessage(err)}
	}
	return nil
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func urlID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &badRequest{msg: "invalid " + name}
	}
	return id, nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondNotice is an error with the page the client should move to.
func respondNotice(w http.ResponseWriter, status int, message, redirect string) {
	respondJSON(w, status, map[string]string{"error": message, "redirect": redirect})
}

// fail maps err onto a status and notice. Unclassified errors are logged
// and reported as 500 without detail.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		breq *badRequest
		verr *sales.ValidationError
	)
	switch {
	case errors.As(err, &breq):
		respondError(w, http.StatusBadRequest, breq.msg)
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, reports.ErrInvalidDate):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrDuplicate):
		respondError(w, http.StatusConflict, "record already exists")
	case errors.Is(err, store.ErrInvalidReference):
		respondError(w, http.StatusBadRequest, "referenced record does not exist")
	case errors.Is(err, store.ErrConstraint):
		respondError(w, http.StatusBadRequest, "value violates a constraint")
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "record not found")
	default:
		zap.L().Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
