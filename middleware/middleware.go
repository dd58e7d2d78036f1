// Package middleware puts a Limiter in front of an http.Handler. Blocked
// requests are answered with 429 before the wrapped handler ever sees them.
package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stittri/admission/internal/log"
	"github.com/stittri/admission/limiter"
)

const (
	stateHeader     = "X-Admission-State"
	requestIDHeader = "X-Request-Id"
)

type handler struct {
	next      http.Handler
	limiter   *limiter.Limiter
	extractor Extractor
}

// Handler wraps next with a per-client admission check.
//
// A request whose client cannot be identified gets a 400: the engine makes no
// decision without an identifier, so the default policy lives here. A store
// failure gets a 500 for the same reason; this handler surfaces the failure
// rather than quietly failing open.
func Handler(l *limiter.Limiter, extractor Extractor, next http.Handler) http.Handler {
	return &handler{
		next:      next,
		limiter:   l,
		extractor: extractor,
	}
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set(requestIDHeader, requestID)

	client, err := h.extractor.Extract(r)
	if err != nil {
		checkErrorsTotal.Inc()
		http.Error(w, "cannot identify client for admission control", http.StatusBadRequest)
		return
	}

	out, err := h.limiter.Check(r.Context(), client)
	if err != nil {
		checkErrorsTotal.Inc()
		log.Logger().Error("admission check failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	checksTotal.WithLabelValues(out.String()).Inc()
	w.Header().Set(stateHeader, out.String())

	if out != limiter.Allow {
		log.Logger().Info("request blocked",
			zap.String("request_id", requestID),
			zap.String("client", client),
			zap.Stringer("outcome", out))
		http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		return
	}

	h.next.ServeHTTP(w, r)
}
