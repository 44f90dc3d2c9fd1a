package ceremony

import (
	"bytes"
	"context"
	"crypto/sha256"
	"time"

	"github.com/asgard/webauthnd/internal/webauthn/codec"
	"github.com/asgard/webauthnd/internal/webauthn/cose"
	"github.com/asgard/webauthnd/internal/webauthn/crypto"
	"github.com/asgard/webauthnd/internal/webauthn/model"
	"github.com/asgard/webauthnd/internal/webauthn/protocol"
)

// CreationChallengeResult is returned from CreationChallenge.
type CreationChallengeResult struct {
	Options   model.PublicKeyCredentialCreationOptions
	SessionID string
}

// CreationChallenge begins a registration ceremony.
func CreationChallenge(ctx context.Context, s Stores, policy *model.WebauthnPolicy, name, displayName string) (*CreationChallengeResult, error) {
	exists, err := s.Users.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &UserExistsError{Name: name}
	}

	ch, err := s.Challenges.CreateNew(ctx)
	if err != nil {
		return nil, err
	}

	user, err := model.NewUserEntity(name, displayName)
	if err != nil {
		return nil, err
	}

	options := model.NewCreationOptions(policy, *user, ch.Value)

	if err := s.Users.Add(ctx, *user); err != nil {
		return nil, err
	}

	sessionID, err := newSessionID()
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.Put(ctx, sessionID, map[string]string{"name": name, "challenge": ch.Value}); err != nil {
		return nil, err
	}

	return &CreationChallengeResult{Options: options, SessionID: sessionID}, nil
}

// CreationResponse completes a registration ceremony.
func CreationResponse(ctx context.Context, s Stores, policy *model.WebauthnPolicy, sessionID string, cred model.CreationPublicKeyCredential) error {
	if sessionID == "" {
		return &SessionNotFoundError{}
	}
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return &SessionNotFoundError{ID: sessionID}
	}
	challenge := session["challenge"]
	name := session["name"]

	if err := consumeChallenge(ctx, s.Challenges, challenge); err != nil {
		return err
	}

	if cred.Type != model.PublicKey {
		return &InvalidTypeError{Type: string(cred.Type)}
	}

	clientDataRaw, err := codec.Base64URLDecode(cred.Response.ClientDataJSON)
	if err != nil {
		return &protocol.ClientDataParseError{Err: err}
	}
	clientData, err := protocol.ParseClientData(clientDataRaw)
	if err != nil {
		return err
	}
	if clientData.Type != model.ClientDataCreate {
		return &AssertionVerificationError{Reason: "clientData.type is not webauthn.create"}
	}
	if clientData.Challenge != challenge {
		return &BadChallengeError{}
	}
	if !protocol.OriginsEqual(clientData.Origin, policy.Origin) {
		return &BadOriginError{}
	}

	attestationRaw, err := codec.Base64URLDecode(cred.Response.AttestationObject)
	if err != nil {
		return &protocol.AttestationParseError{Err: err}
	}
	att, err := protocol.ParseAttestationObject(attestationRaw)
	if err != nil {
		return err
	}

	expectedRPIDHash := sha256.Sum256([]byte(policy.RPID))
	if !bytes.Equal(expectedRPIDHash[:], att.AuthData.RPIDHash) {
		return &AssertionVerificationError{Reason: "rp_id hash mismatch"}
	}

	switch att.Format {
	case protocol.FormatPacked:
		if att.AuthData.CredentialData == nil {
			return &protocol.AuthenticatorDataDeserializeError{Section: "credential_data: required for attested credential"}
		}
		clientDataHash := sha256.Sum256(clientDataRaw)
		verificationData := append(append([]byte{}, att.AuthDataBytes...), clientDataHash[:]...)
		pubKeyBytes, err := cose.MaterializePublicKeyBytes(att.AuthData.CredentialData.CredentialPublicKey, att.Statement.Alg)
		if err != nil {
			return &AssertionVerificationError{Reason: err.Error()}
		}
		ok, err := crypto.Verify(att.Statement.Alg, pubKeyBytes, verificationData, att.Statement.Sig)
		if err != nil {
			return err
		}
		if !ok {
			return &AssertionVerificationError{Reason: "signature mismatch"}
		}
	case protocol.FormatNone:
		// Signature verification is skipped for "none"; the rp_id hash check
		// above still applies.
	default:
		return &protocol.AttestationFormatTypeError{Format: att.Format}
	}

	if att.AuthData.CredentialData == nil {
		return &protocol.AuthenticatorDataDeserializeError{Section: "credential_data: required"}
	}
	credID := codec.Base64URLEncode(att.AuthData.CredentialData.CredentialID)

	existing, err := s.Credentials.Get(ctx, credID)
	if err != nil {
		return err
	}
	if existing != nil {
		return &CredentialIdInUseError{ID: credID}
	}

	newCred := model.Credential{
		ID:                  credID,
		Type:                model.PublicKey,
		Counter:             att.AuthData.Counter,
		AAGUID:              att.AuthData.CredentialData.AAGUID,
		CredentialPublicKey: *att.AuthData.CredentialData.CredentialPublicKey,
		Flags:               att.AuthData.Flags,
		Last:                time.Now(),
	}
	if err := s.Credentials.Add(ctx, newCred); err != nil {
		return err
	}
	return s.Users.AddCredentialRef(ctx, name, credID)
}
