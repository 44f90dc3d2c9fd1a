// Package config loads the default WebauthnPolicy from the process
// environment, following the env-var-with-fallback-defaults idiom of
// internal/platform/db.LoadConfig.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/asgard/webauthnd/internal/webauthn/model"
)

// Default policy values.
const (
	defaultRPID        = "localhost"
	defaultRPName      = "swankymutt"
	defaultOrigin      = "http://localhost:3000"
	defaultTimeout     = 360000
)

// LoadPolicyBuilder builds a WebauthnPolicyBuilder from environment
// variables, falling back to hard-coded defaults for anything unset.
func LoadPolicyBuilder() *model.WebauthnPolicyBuilder {
	b := model.NewWebauthnPolicyBuilder()

	b.WithRPID(getEnv("WEBAUTHN_RP_ID", defaultRPID))
	b.WithRPName(getEnv("WEBAUTHN_RP_NAME", defaultRPName))
	b.WithOrigin(getEnv("WEBAUTHN_ORIGIN", defaultOrigin))
	b.WithKeyType(model.PublicKey)
	b.WithAlg(parseAlg(getEnv("WEBAUTHN_ALG", "ES256")))
	b.WithAuthenticatorAttachment(model.AuthenticatorAttachment(
		getEnv("WEBAUTHN_AUTHENTICATOR_ATTACHMENT", string(model.AttachmentMultiPlatform))))
	b.WithResidentKey(model.ResidentKeyRequirement(
		getEnv("WEBAUTHN_RESIDENT_KEY", string(model.ResidentKeyDiscouraged))))
	b.WithUserVerification(model.UserVerificationRequirement(
		getEnv("WEBAUTHN_USER_VERIFICATION", string(model.UserVerificationRequired))))
	b.WithAttestation(model.AttestationConveyancePreference(
		getEnv("WEBAUTHN_CONVEYANCE_PREFERENCE", string(model.AttestationDirect))))
	b.WithTimeout(parseInt(getEnv("WEBAUTHN_TIMEOUT", ""), defaultTimeout))
	b.WithValidateSignCount(parseBool(getEnv("WEBAUTHN_VALIDATE_SIGN_COUNT", "false")))
	b.WithAuthenticatorTransports(parseTransports(os.Getenv("WEBAUTHN_AUTHENTICATOR_TRANSPORTS")))

	return b
}

func parseAlg(name string) model.COSEAlgorithm {
	switch strings.ToUpper(name) {
	case "ES384":
		return model.AlgES384
	case "ES512":
		return model.AlgES512
	case "EDDSA":
		return model.AlgEdDSA
	case "RS256":
		return model.AlgRS256
	case "RS384":
		return model.AlgRS384
	case "RS512":
		return model.AlgRS512
	default:
		return model.AlgES256
	}
}

func parseTransports(raw string) []model.AuthenticatorTransport {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]model.AuthenticatorTransport, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, model.AuthenticatorTransport(p))
		}
	}
	return out
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(raw string) bool {
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return b
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
