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

// AssertionChallengeResult is returned from AssertionChallenge.
type AssertionChallengeResult struct {
	Options   model.PublicKeyCredentialRequestOptions
	SessionID string
}

// AssertionChallenge begins an authentication ceremony.
func AssertionChallenge(ctx context.Context, s Stores, policy *model.WebauthnPolicy, name string) (*AssertionChallengeResult, error) {
	user, err := s.Users.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &UserNotFoundError{Name: name}
	}

	credIDs, err := s.Users.CredentialIDsFor(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(credIDs) == 0 {
		return nil, &CredentialNotFoundError{}
	}

	// Only the first credential is offered; multi-credential selection is
	// left for a future iteration.
	cred, err := s.Credentials.Get(ctx, credIDs[0])
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, &CredentialNotFoundError{ID: credIDs[0]}
	}

	ch, err := s.Challenges.CreateNew(ctx)
	if err != nil {
		return nil, err
	}

	options := model.NewRequestOptions(policy, *cred, ch.Value)

	sessionID, err := newSessionID()
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.Put(ctx, sessionID, map[string]string{"name": name, "challenge": ch.Value}); err != nil {
		return nil, err
	}

	return &AssertionChallengeResult{Options: options, SessionID: sessionID}, nil
}

// AssertionResponse completes an authentication ceremony.
func AssertionResponse(ctx context.Context, s Stores, policy *model.WebauthnPolicy, sessionID string, cred model.AssertionPublicKeyCredential) error {
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

	if err := consumeChallenge(ctx, s.Challenges, challenge); err != nil {
		return err
	}

	if cred.Type != model.PublicKey {
		return &InvalidTypeError{Type: string(cred.Type)}
	}

	stored, err := s.Credentials.Get(ctx, cred.ID)
	if err != nil {
		return err
	}
	if stored == nil {
		return &CredentialNotFoundError{ID: cred.ID}
	}

	clientDataRaw, err := codec.Base64URLDecode(cred.Response.ClientDataJSON)
	if err != nil {
		return &protocol.ClientDataParseError{Err: err}
	}
	clientData, err := protocol.ParseClientData(clientDataRaw)
	if err != nil {
		return err
	}
	if clientData.Type != model.ClientDataGet {
		return &AssertionVerificationError{Reason: "clientData.type is not webauthn.get"}
	}
	if clientData.Challenge != challenge {
		return &BadChallengeError{}
	}
	if !protocol.OriginsEqual(clientData.Origin, policy.Origin) {
		return &BadOriginError{}
	}

	authDataRaw, err := codec.Base64URLDecode(cred.Response.AuthenticatorData)
	if err != nil {
		return &protocol.AuthenticatorDataDeserializeError{Section: "base64 decode: " + err.Error()}
	}
	authData, err := protocol.ParseAuthenticatorData(authDataRaw)
	if err != nil {
		return err
	}

	expectedRPIDHash := sha256.Sum256([]byte(policy.RPID))
	if !bytes.Equal(expectedRPIDHash[:], authData.RPIDHash) {
		return &AssertionVerificationError{Reason: "rp_id hash mismatch"}
	}

	if !authData.IsUserPresent() {
		return &AssertionVerificationError{Reason: "user presence flag not set"}
	}
	if policy.UserVerification == model.UserVerificationRequired && !authData.IsUserVerified() {
		return &AssertionVerificationError{Reason: "user verification flag not set"}
	}

	if policy.ValidateSignCount && authData.Counter <= stored.Counter {
		return &BadSignCounterError{}
	}

	signature, err := codec.Base64URLDecode(cred.Response.Signature)
	if err != nil {
		return &AssertionVerificationError{Reason: "invalid signature encoding"}
	}

	clientDataHash := sha256.Sum256(clientDataRaw)
	verificationData := append(append([]byte{}, authDataRaw...), clientDataHash[:]...)

	alg := stored.CredentialPublicKey.Alg
	pubKeyBytes, err := cose.MaterializePublicKeyBytes(&stored.CredentialPublicKey, alg)
	if err != nil {
		return &AssertionVerificationError{Reason: err.Error()}
	}
	ok, err := crypto.Verify(alg, pubKeyBytes, verificationData, signature)
	if err != nil {
		return err
	}
	if !ok {
		return &AssertionVerificationError{Reason: "signature mismatch"}
	}

	newCounter := authData.Counter
	if !policy.ValidateSignCount && newCounter < stored.Counter {
		newCounter = stored.Counter
	}
	stored.Counter = newCounter
	stored.Last = time.Now()
	if err := s.Credentials.Update(ctx, *stored); err != nil {
		return err
	}

	session["authenticated"] = "true"
	return s.Sessions.Put(ctx, sessionID, session)
}
