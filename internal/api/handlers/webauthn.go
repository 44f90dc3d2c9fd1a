package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/asgard/webauthnd/internal/api/response"
	"github.com/asgard/webauthnd/internal/api/validation"
	"github.com/asgard/webauthnd/internal/metrics"
	"github.com/asgard/webauthnd/internal/utils"
	"github.com/asgard/webauthnd/internal/webauthn/ceremony"
	"github.com/asgard/webauthnd/internal/webauthn/model"
	"github.com/asgard/webauthnd/internal/webauthn/protocol"
)

// SessionHeader is the header name carrying the opaque session id
// chosen over a cookie to avoid Safari XHR cookie handling quirks.
const SessionHeader = "x-session"

// WebauthnHandler serves the four ceremony endpoints and the policy
// document endpoint.
type WebauthnHandler struct {
	stores      ceremony.Stores
	policy      func() *model.WebauthnPolicy
	updatePolicy func(model.WebauthnPolicyBuilder) (*model.WebauthnPolicy, error)
	log         *utils.Logger
}

// NewWebauthnHandler wires the ceremony engine to its stores and the live
// policy accessor/mutator.
func NewWebauthnHandler(
	stores ceremony.Stores,
	policy func() *model.WebauthnPolicy,
	updatePolicy func(model.WebauthnPolicyBuilder) (*model.WebauthnPolicy, error),
) *WebauthnHandler {
	return &WebauthnHandler{stores: stores, policy: policy, updatePolicy: updatePolicy, log: utils.NewLogger()}
}

type creationChallengeRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// CreationChallenge handles POST /webauthn/credential/challenge.
func (h *WebauthnHandler) CreationChallenge(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req creationChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.ValidateNonEmpty(req.Name, "name"); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.DisplayName != "" {
		if err := validation.ValidateLength(req.DisplayName, "displayName", 1, 200); err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	result, err := ceremony.CreationChallenge(r.Context(), h.stores, h.policy(), req.Name, req.DisplayName)
	metrics.Observe(metrics.LegCreationChallenge, time.Since(start).Seconds(), err)
	if err != nil {
		h.handleChallengeError(w, err)
		return
	}

	w.Header().Set(SessionHeader, result.SessionID)
	jsonResponse(w, http.StatusOK, result.Options)
}

func (h *WebauthnHandler) handleChallengeError(w http.ResponseWriter, err error) {
	switch err.(type) {
	case *ceremony.UserExistsError:
		jsonError(w, http.StatusForbidden, err.Error())
	case *ceremony.UserNotFoundError, *ceremony.CredentialNotFoundError:
		jsonError(w, http.StatusForbidden, err.Error())
	default:
		h.log.Error("ceremony challenge error: %v", err)
		jsonError(w, http.StatusInternalServerError, "internal server error")
	}
}

// CreationResponse handles POST /webauthn/credential/response.
func (h *WebauthnHandler) CreationResponse(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var cred model.CreationPublicKeyCredential
	if err := json.NewDecoder(r.Body).Decode(&cred); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := r.Header.Get(SessionHeader)
	err := ceremony.CreationResponse(r.Context(), h.stores, h.policy(), sessionID, cred)
	metrics.Observe(metrics.LegCreationResponse, time.Since(start).Seconds(), err)
	if err != nil {
		h.handleResponseError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *WebauthnHandler) handleResponseError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *ceremony.ChallengeNotFoundError:
		jsonError(w, http.StatusNotFound, "challenge not found")
	case *ceremony.ChallengeUsedError:
		jsonError(w, http.StatusForbidden, "Challenge is already used")
	case *ceremony.SessionNotFoundError:
		jsonError(w, http.StatusUnauthorized, "session not found")
	case *ceremony.InvalidTypeError:
		jsonError(w, http.StatusBadRequest, e.Error())
	case *ceremony.BadChallengeError:
		jsonError(w, http.StatusUnauthorized, "bad challenge")
	case *ceremony.BadOriginError:
		jsonError(w, http.StatusUnauthorized, "bad origin")
	case *ceremony.CredentialIdInUseError:
		jsonError(w, http.StatusUnauthorized, "credential id already in use")
	case *ceremony.AssertionVerificationError:
		jsonError(w, http.StatusUnauthorized, "signature verification failed")
	case *protocol.AttestationFormatTypeError, *protocol.AuthenticatorDataDeserializeError,
		*protocol.ClientDataParseError, *protocol.AttestationParseError:
		jsonError(w, http.StatusBadRequest, "malformed request")
	default:
		h.log.Error("ceremony response error: %v", err)
		jsonError(w, http.StatusInternalServerError, "internal server error")
	}
}

type assertionChallengeRequest struct {
	Name string `json:"name"`
}

// AssertionChallenge handles POST /webauthn/assertion/challenge.
func (h *WebauthnHandler) AssertionChallenge(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req assertionChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.ValidateNonEmpty(req.Name, "name"); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := ceremony.AssertionChallenge(r.Context(), h.stores, h.policy(), req.Name)
	metrics.Observe(metrics.LegAssertionChallenge, time.Since(start).Seconds(), err)
	if err != nil {
		h.handleChallengeError(w, err)
		return
	}

	w.Header().Set(SessionHeader, result.SessionID)
	jsonResponse(w, http.StatusOK, result.Options)
}

// AssertionResponse handles POST /webauthn/assertion/response.
func (h *WebauthnHandler) AssertionResponse(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var cred model.AssertionPublicKeyCredential
	if err := json.NewDecoder(r.Body).Decode(&cred); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := r.Header.Get(SessionHeader)
	err := ceremony.AssertionResponse(r.Context(), h.stores, h.policy(), sessionID, cred)
	metrics.Observe(metrics.LegAssertionResponse, time.Since(start).Seconds(), err)
	if err != nil {
		h.handleAssertionResponseError(w, err)
		return
	}

	w.Header().Set(SessionHeader, sessionID)
	jsonResponse(w, http.StatusOK, map[string]bool{"authenticated": true})
}

func (h *WebauthnHandler) handleAssertionResponseError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *ceremony.CredentialNotFoundError, *ceremony.ChallengeNotFoundError:
		jsonError(w, http.StatusNotFound, e.Error())
	case *ceremony.ChallengeUsedError:
		jsonError(w, http.StatusForbidden, "Challenge is already used")
	case *ceremony.SessionNotFoundError:
		jsonError(w, http.StatusUnauthorized, "session not found")
	case *ceremony.InvalidTypeError:
		jsonError(w, http.StatusBadRequest, e.Error())
	case *ceremony.BadChallengeError:
		jsonError(w, http.StatusUnauthorized, "bad challenge")
	case *ceremony.BadOriginError:
		jsonError(w, http.StatusUnauthorized, "bad origin")
	case *ceremony.BadSignCounterError:
		jsonError(w, http.StatusUnauthorized, "bad sign counter")
	case *ceremony.AssertionVerificationError:
		jsonError(w, http.StatusUnauthorized, "signature verification failed")
	case *protocol.AttestationFormatTypeError, *protocol.AuthenticatorDataDeserializeError,
		*protocol.ClientDataParseError, *protocol.AttestationParseError:
		jsonError(w, http.StatusBadRequest, "malformed request")
	default:
		h.log.Error("ceremony assertion error: %v", err)
		jsonError(w, http.StatusInternalServerError, "internal server error")
	}
}

// GetPolicy handles GET /api/policy.
func (h *WebauthnHandler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.policy())
}

// PatchPolicy handles PATCH /api/policy: a merge-patch over the builder's
// optional fields.
func (h *WebauthnHandler) PatchPolicy(w http.ResponseWriter, r *http.Request) {
	var patch model.WebauthnPolicyBuilder
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.updatePolicy(patch)
	if err != nil {
		h.log.Error("policy patch error: %v", err)
		jsonError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// ListUsers handles GET /api/users, an operator-facing listing of
// registered relying-party users.
func (h *WebauthnHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.stores.Users.List(r.Context())
	if err != nil {
		handleError(w, utils.WrapAPIError(err, "INTERNAL_ERROR", "failed to list users", http.StatusInternalServerError))
		return
	}
	response.Success(w, http.StatusOK, users)
}
