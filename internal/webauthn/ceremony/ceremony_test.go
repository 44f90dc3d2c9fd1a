package ceremony

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/asgard/webauthnd/internal/webauthn/codec"
	"github.com/asgard/webauthnd/internal/webauthn/cose"
	"github.com/asgard/webauthnd/internal/webauthn/model"
	"github.com/asgard/webauthnd/internal/webauthn/store"
)

// --- in-memory fakes implementing the store package's repository contracts ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]model.UserEntity
	creds map[string][]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]model.UserEntity{}, creds: map[string][]string{}}
}

func (r *fakeUserRepo) Exists(ctx context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[name]
	return ok, nil
}

func (r *fakeUserRepo) Get(ctx context.Context, name string) (*model.UserEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[name]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) Add(ctx context.Context, user model.UserEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.Name] = user
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]model.UserEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.UserEntity, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) DeleteCascade(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, name)
	delete(r.creds, name)
	return nil
}

func (r *fakeUserRepo) AddCredentialRef(ctx context.Context, name, credentialID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creds[name] = append(r.creds[name], credentialID)
	return nil
}

func (r *fakeUserRepo) CredentialIDsFor(ctx context.Context, name string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.creds[name]...), nil
}

type fakeCredentialRepo struct {
	mu    sync.Mutex
	creds map[string]model.Credential
}

func newFakeCredentialRepo() *fakeCredentialRepo {
	return &fakeCredentialRepo{creds: map[string]model.Credential{}}
}

func (r *fakeCredentialRepo) Get(ctx context.Context, id string) (*model.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.creds[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeCredentialRepo) Add(ctx context.Context, cred model.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creds[cred.ID] = cred
	return nil
}

func (r *fakeCredentialRepo) Update(ctx context.Context, cred model.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creds[cred.ID] = cred
	return nil
}

func (r *fakeCredentialRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.creds, id)
	return nil
}

type fakeChallengeStore struct {
	mu    sync.Mutex
	seq   int
	store map[string]*store.Challenge
}

func newFakeChallengeStore() *fakeChallengeStore {
	return &fakeChallengeStore{store: map[string]*store.Challenge{}}
}

func (c *fakeChallengeStore) CreateNew(ctx context.Context) (*store.Challenge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	value := fmt.Sprintf("challenge-%d", c.seq)
	ch := &store.Challenge{Value: value, Created: time.Now()}
	c.store[value] = ch
	copyCh := *ch
	return &copyCh, nil
}

func (c *fakeChallengeStore) Check(ctx context.Context, value string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[value]
	return ok, nil
}

func (c *fakeChallengeStore) Fetch(ctx context.Context, value string) (*store.Challenge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.store[value]
	if !ok {
		return nil, nil
	}
	copyCh := *ch
	return &copyCh, nil
}

func (c *fakeChallengeStore) MarkUsed(ctx context.Context, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.store[value]
	if !ok {
		return &store.ChallengeUsedError{Value: value}
	}
	if ch.Used {
		return &store.ChallengeUsedError{Value: value}
	}
	ch.Used = true
	now := time.Now()
	ch.UsedTime = &now
	return nil
}

func (c *fakeChallengeStore) Delete(ctx context.Context, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, value)
	return nil
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]map[string]string{}}
}

func (s *fakeSessionStore) Put(ctx context.Context, id string, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := map[string]string{}
	for k, v := range values {
		cp[k] = v
	}
	s.sessions[id] = cp
	return nil
}

func (s *fakeSessionStore) Get(ctx context.Context, id string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := map[string]string{}
	for k, val := range v {
		cp[k] = val
	}
	return cp, nil
}

// --- test helpers: building a synthetic authenticator ---

func testFlowPolicy(t *testing.T, requireUV bool, validateSignCount bool) *model.WebauthnPolicy {
	t.Helper()
	uv := model.UserVerificationPreferred
	if requireUV {
		uv = model.UserVerificationRequired
	}
	policy, err := model.NewWebauthnPolicyBuilder().
		WithRPID("example.com").
		WithRPName("Example Corp").
		WithKeyType(model.PublicKey).
		WithAlg(model.AlgES256).
		WithAuthenticatorAttachment(model.AttachmentPlatform).
		WithResidentKey(model.ResidentKeyPreferred).
		WithUserVerification(uv).
		WithOrigin("https://example.com").
		WithAttestation(model.AttestationNone).
		WithTimeout(60000).
		WithValidateSignCount(validateSignCount).
		WithAuthenticatorTransports([]model.AuthenticatorTransport{model.TransportInternal}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return policy
}

func canonicalCBOR(t *testing.T, v interface{}) []byte {
	t.Helper()
	opts := cbor.CanonicalEncOptions()
	em, err := opts.EncMode()
	if err != nil {
		t.Fatalf("building encoder: %v", err)
	}
	b, err := em.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func buildAuthData(t *testing.T, rpID string, flags byte, counter uint32, credID []byte, pub *ecdsa.PublicKey) []byte {
	t.Helper()
	hash := sha256.Sum256([]byte(rpID))
	out := make([]byte, 37)
	copy(out[0:32], hash[:])
	out[32] = flags
	binary.BigEndian.PutUint32(out[33:37], counter)

	if pub == nil {
		return out
	}

	byteLen := 32
	x := make([]byte, byteLen)
	y := make([]byte, byteLen)
	pub.X.FillBytes(x)
	pub.Y.FillBytes(y)

	keyMap := map[int64]interface{}{
		int64(cose.LabelKty):    int64(cose.KtyEC2),
		int64(cose.LabelAlg):    int64(cose.AlgES256),
		int64(cose.LabelCrvOrK): int64(cose.CurveP256),
		int64(cose.LabelX):      x,
		int64(cose.LabelY):      y,
	}
	keyBytes := canonicalCBOR(t, keyMap)

	lengthBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(lengthBytes, uint16(len(credID)))

	aaguid := make([]byte, 16)

	out = append(out, aaguid...)
	out = append(out, lengthBytes...)
	out = append(out, credID...)
	out = append(out, keyBytes...)
	return out
}

func signVerificationData(t *testing.T, priv *ecdsa.PrivateKey, authData, clientDataJSON []byte) []byte {
	t.Helper()
	clientDataHash := sha256.Sum256(clientDataJSON)
	verificationData := append(append([]byte{}, authData...), clientDataHash[:]...)
	digest := sha256.Sum256(verificationData)
	sig, err := ecdsa.SignASN1(rand.Reader, priv, digest[:])
	if err != nil {
		t.Fatalf("SignASN1() error = %v", err)
	}
	return sig
}

func clientDataJSON(typ, challenge, origin string) []byte {
	return []byte(fmt.Sprintf(`{"type":%q,"challenge":%q,"origin":%q}`, typ, challenge, origin))
}

// --- end-to-end flow tests ---

func TestRegistrationAndAuthentication_FullFlow(t *testing.T) {
	ctx := context.Background()
	policy := testFlowPolicy(t, true, true)
	stores := Stores{
		Users:       newFakeUserRepo(),
		Credentials: newFakeCredentialRepo(),
		Challenges:  newFakeChallengeStore(),
		Sessions:    newFakeSessionStore(),
	}

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	credID := []byte{0x01, 0x02, 0x03, 0x04}

	challengeResult, err := CreationChallenge(ctx, stores, policy, "alice", "Alice A")
	if err != nil {
		t.Fatalf("CreationChallenge() error = %v", err)
	}

	authData := buildAuthData(t, policy.RPID, 0x41, 0, credID, &priv.PublicKey) // UP + attested cred data
	cdj := clientDataJSON("webauthn.create", challengeResult.Options.Challenge, policy.Origin)
	attObj := canonicalCBOR(t, map[string]interface{}{
		"fmt":      "none",
		"attStmt":  map[string]interface{}{},
		"authData": authData,
	})

	creationCred := model.CreationPublicKeyCredential{
		ID:   codec.Base64URLEncode(credID),
		Type: model.PublicKey,
		Response: model.AttestationResponse{
			AttestationObject: codec.Base64URLEncode(attObj),
			ClientDataJSON:    codec.Base64URLEncode(cdj),
		},
	}

	if err := CreationResponse(ctx, stores, policy, challengeResult.SessionID, creationCred); err != nil {
		t.Fatalf("CreationResponse() error = %v", err)
	}

	stored, err := stores.Credentials.Get(ctx, codec.Base64URLEncode(credID))
	if err != nil || stored == nil {
		t.Fatalf("expected credential to be stored, err=%v", err)
	}

	assertionResult, err := AssertionChallenge(ctx, stores, policy, "alice")
	if err != nil {
		t.Fatalf("AssertionChallenge() error = %v", err)
	}
	if len(assertionResult.Options.AllowCredentials) != 1 {
		t.Fatalf("expected exactly one allowCredentials entry")
	}

	authAuthData := buildAuthData(t, policy.RPID, 0x05, 1, nil, nil) // UP+UV, no attested cred data
	authCDJ := clientDataJSON("webauthn.get", assertionResult.Options.Challenge, policy.Origin)
	sig := signVerificationData(t, priv, authAuthData, authCDJ)

	assertionCred := model.AssertionPublicKeyCredential{
		ID:   codec.Base64URLEncode(credID),
		Type: model.PublicKey,
		Response: model.AssertionResponseFields{
			AuthenticatorData: codec.Base64URLEncode(authAuthData),
			ClientDataJSON:    codec.Base64URLEncode(authCDJ),
			Signature:         codec.Base64URLEncode(sig),
		},
	}

	if err := AssertionResponse(ctx, stores, policy, assertionResult.SessionID, assertionCred); err != nil {
		t.Fatalf("AssertionResponse() error = %v", err)
	}

	updated, err := stores.Credentials.Get(ctx, codec.Base64URLEncode(credID))
	if err != nil || updated == nil {
		t.Fatalf("expected credential to still exist, err=%v", err)
	}
	if updated.Counter != 1 {
		t.Errorf("Counter = %d, want 1", updated.Counter)
	}

	session, err := stores.Sessions.Get(ctx, assertionResult.SessionID)
	if err != nil {
		t.Fatalf("Sessions.Get() error = %v", err)
	}
	if session["authenticated"] != "true" {
		t.Errorf("session[authenticated] = %v, want true", session["authenticated"])
	}
}

func TestCreationChallenge_UserAlreadyExists(t *testing.T) {
	ctx := context.Background()
	policy := testFlowPolicy(t, false, false)
	stores := Stores{
		Users:       newFakeUserRepo(),
		Credentials: newFakeCredentialRepo(),
		Challenges:  newFakeChallengeStore(),
		Sessions:    newFakeSessionStore(),
	}

	if _, err := CreationChallenge(ctx, stores, policy, "alice", ""); err != nil {
		t.Fatalf("first CreationChallenge() error = %v", err)
	}
	_, err := CreationChallenge(ctx, stores, policy, "alice", "")
	if err == nil {
		t.Fatal("expected error for duplicate user")
	}
	if _, ok := err.(*UserExistsError); !ok {
		t.Errorf("error type = %T, want *UserExistsError", err)
	}
}

func TestCreationResponse_BadChallenge(t *testing.T) {
	ctx := context.Background()
	policy := testFlowPolicy(t, false, false)
	stores := Stores{
		Users:       newFakeUserRepo(),
		Credentials: newFakeCredentialRepo(),
		Challenges:  newFakeChallengeStore(),
		Sessions:    newFakeSessionStore(),
	}

	priv, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	credID := []byte{0xAA}

	challengeResult, err := CreationChallenge(ctx, stores, policy, "alice", "")
	if err != nil {
		t.Fatalf("CreationChallenge() error = %v", err)
	}

	authData := buildAuthData(t, policy.RPID, 0x41, 0, credID, &priv.PublicKey)
	cdj := clientDataJSON("webauthn.create", "wrong-challenge-value", policy.Origin)
	attObj := canonicalCBOR(t, map[string]interface{}{
		"fmt":      "none",
		"attStmt":  map[string]interface{}{},
		"authData": authData,
	})

	creationCred := model.CreationPublicKeyCredential{
		ID:   codec.Base64URLEncode(credID),
		Type: model.PublicKey,
		Response: model.AttestationResponse{
			AttestationObject: codec.Base64URLEncode(attObj),
			ClientDataJSON:    codec.Base64URLEncode(cdj),
		},
	}

	err = CreationResponse(ctx, stores, policy, challengeResult.SessionID, creationCred)
	if err == nil {
		t.Fatal("expected error for mismatched challenge")
	}
	if _, ok := err.(*BadChallengeError); !ok {
		t.Errorf("error type = %T, want *BadChallengeError", err)
	}
}

func TestCreationResponse_ChallengeReplay(t *testing.T) {
	ctx := context.Background()
	policy := testFlowPolicy(t, false, false)
	stores := Stores{
		Users:       newFakeUserRepo(),
		Credentials: newFakeCredentialRepo(),
		Challenges:  newFakeChallengeStore(),
		Sessions:    newFakeSessionStore(),
	}

	priv, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	credID := []byte{0xAA}

	challengeResult, err := CreationChallenge(ctx, stores, policy, "alice", "")
	if err != nil {
		t.Fatalf("CreationChallenge() error = %v", err)
	}

	authData := buildAuthData(t, policy.RPID, 0x41, 0, credID, &priv.PublicKey)
	cdj := clientDataJSON("webauthn.create", challengeResult.Options.Challenge, policy.Origin)
	attObj := canonicalCBOR(t, map[string]interface{}{
		"fmt":      "none",
		"attStmt":  map[string]interface{}{},
		"authData": authData,
	})
	creationCred := model.CreationPublicKeyCredential{
		ID:   codec.Base64URLEncode(credID),
		Type: model.PublicKey,
		Response: model.AttestationResponse{
			AttestationObject: codec.Base64URLEncode(attObj),
			ClientDataJSON:    codec.Base64URLEncode(cdj),
		},
	}

	if err := CreationResponse(ctx, stores, policy, challengeResult.SessionID, creationCred); err != nil {
		t.Fatalf("first CreationResponse() error = %v", err)
	}

	// Re-submitting the same session/challenge a second time must fail: the
	// challenge was already marked used on the first call.
	err = CreationResponse(ctx, stores, policy, challengeResult.SessionID, creationCred)
	if err == nil {
		t.Fatal("expected error on challenge replay")
	}
	if _, ok := err.(*ChallengeUsedError); !ok {
		t.Errorf("error type = %T, want *ChallengeUsedError", err)
	}
}

func TestCreationResponse_BadOrigin(t *testing.T) {
	ctx := context.Background()
	policy := testFlowPolicy(t, false, false)
	stores := Stores{
		Users:       newFakeUserRepo(),
		Credentials: newFakeCredentialRepo(),
		Challenges:  newFakeChallengeStore(),
		Sessions:    newFakeSessionStore(),
	}

	priv, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	credID := []byte{0xAA}

	challengeResult, err := CreationChallenge(ctx, stores, policy, "alice", "")
	if err != nil {
		t.Fatalf("CreationChallenge() error = %v", err)
	}

	authData := buildAuthData(t, policy.RPID, 0x41, 0, credID, &priv.PublicKey)
	cdj := clientDataJSON("webauthn.create", challengeResult.Options.Challenge, "https://evil.example")
	attObj := canonicalCBOR(t, map[string]interface{}{
		"fmt":      "none",
		"attStmt":  map[string]interface{}{},
		"authData": authData,
	})
	creationCred := model.CreationPublicKeyCredential{
		ID:   codec.Base64URLEncode(credID),
		Type: model.PublicKey,
		Response: model.AttestationResponse{
			AttestationObject: codec.Base64URLEncode(attObj),
			ClientDataJSON:    codec.Base64URLEncode(cdj),
		},
	}

	err = CreationResponse(ctx, stores, policy, challengeResult.SessionID, creationCred)
	if err == nil {
		t.Fatal("expected error for mismatched origin")
	}
	if _, ok := err.(*BadOriginError); !ok {
		t.Errorf("error type = %T, want *BadOriginError", err)
	}
}

func TestAssertionResponse_UserVerificationRequired(t *testing.T) {
	ctx := context.Background()
	policy := testFlowPolicy(t, true, false)
	stores := Stores{
		Users:       newFakeUserRepo(),
		Credentials: newFakeCredentialRepo(),
		Challenges:  newFakeChallengeStore(),
		Sessions:    newFakeSessionStore(),
	}

	priv, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	credID := []byte{0xBB}

	challengeResult, err := CreationChallenge(ctx, stores, policy, "bob", "")
	if err != nil {
		t.Fatalf("CreationChallenge() error = %v", err)
	}
	authData := buildAuthData(t, policy.RPID, 0x41, 0, credID, &priv.PublicKey)
	cdj := clientDataJSON("webauthn.create", challengeResult.Options.Challenge, policy.Origin)
	attObj := canonicalCBOR(t, map[string]interface{}{
		"fmt":      "none",
		"attStmt":  map[string]interface{}{},
		"authData": authData,
	})
	creationCred := model.CreationPublicKeyCredential{
		ID:   codec.Base64URLEncode(credID),
		Type: model.PublicKey,
		Response: model.AttestationResponse{
			AttestationObject: codec.Base64URLEncode(attObj),
			ClientDataJSON:    codec.Base64URLEncode(cdj),
		},
	}
	if err := CreationResponse(ctx, stores, policy, challengeResult.SessionID, creationCred); err != nil {
		t.Fatalf("CreationResponse() error = %v", err)
	}

	assertionResult, err := AssertionChallenge(ctx, stores, policy, "bob")
	if err != nil {
		t.Fatalf("AssertionChallenge() error = %v", err)
	}

	// user-present only, no user-verified flag, while policy requires UV.
	authAuthData := buildAuthData(t, policy.RPID, 0x01, 1, nil, nil)
	authCDJ := clientDataJSON("webauthn.get", assertionResult.Options.Challenge, policy.Origin)
	sig := signVerificationData(t, priv, authAuthData, authCDJ)

	assertionCred := model.AssertionPublicKeyCredential{
		ID:   codec.Base64URLEncode(credID),
		Type: model.PublicKey,
		Response: model.AssertionResponseFields{
			AuthenticatorData: codec.Base64URLEncode(authAuthData),
			ClientDataJSON:    codec.Base64URLEncode(authCDJ),
			Signature:         codec.Base64URLEncode(sig),
		},
	}

	err = AssertionResponse(ctx, stores, policy, assertionResult.SessionID, assertionCred)
	if err == nil {
		t.Fatal("expected error when user verification flag is absent under a required policy")
	}
	if _, ok := err.(*AssertionVerificationError); !ok {
		t.Errorf("error type = %T, want *AssertionVerificationError", err)
	}
}

func TestAssertionResponse_SignCounterRegression(t *testing.T) {
	ctx := context.Background()
	policy := testFlowPolicy(t, false, true)
	stores := Stores{
		Users:       newFakeUserRepo(),
		Credentials: newFakeCredentialRepo(),
		Challenges:  newFakeChallengeStore(),
		Sessions:    newFakeSessionStore(),
	}

	priv, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	credID := []byte{0xCC}

	challengeResult, err := CreationChallenge(ctx, stores, policy, "carol", "")
	if err != nil {
		t.Fatalf("CreationChallenge() error = %v", err)
	}
	authData := buildAuthData(t, policy.RPID, 0x41, 5, credID, &priv.PublicKey)
	cdj := clientDataJSON("webauthn.create", challengeResult.Options.Challenge, policy.Origin)
	attObj := canonicalCBOR(t, map[string]interface{}{
		"fmt":      "none",
		"attStmt":  map[string]interface{}{},
		"authData": authData,
	})
	creationCred := model.CreationPublicKeyCredential{
		ID:   codec.Base64URLEncode(credID),
		Type: model.PublicKey,
		Response: model.AttestationResponse{
			AttestationObject: codec.Base64URLEncode(attObj),
			ClientDataJSON:    codec.Base64URLEncode(cdj),
		},
	}
	if err := CreationResponse(ctx, stores, policy, challengeResult.SessionID, creationCred); err != nil {
		t.Fatalf("CreationResponse() error = %v", err)
	}

	assertionResult, err := AssertionChallenge(ctx, stores, policy, "carol")
	if err != nil {
		t.Fatalf("AssertionChallenge() error = %v", err)
	}

	// counter 3 is less than the stored counter of 5: a regression, which
	// ValidateSignCount=true must reject.
	authAuthData := buildAuthData(t, policy.RPID, 0x01, 3, nil, nil)
	authCDJ := clientDataJSON("webauthn.get", assertionResult.Options.Challenge, policy.Origin)
	sig := signVerificationData(t, priv, authAuthData, authCDJ)

	assertionCred := model.AssertionPublicKeyCredential{
		ID:   codec.Base64URLEncode(credID),
		Type: model.PublicKey,
		Response: model.AssertionResponseFields{
			AuthenticatorData: codec.Base64URLEncode(authAuthData),
			ClientDataJSON:    codec.Base64URLEncode(authCDJ),
			Signature:         codec.Base64URLEncode(sig),
		},
	}

	err = AssertionResponse(ctx, stores, policy, assertionResult.SessionID, assertionCred)
	if err == nil {
		t.Fatal("expected error for sign counter regression")
	}
	if _, ok := err.(*BadSignCounterError); !ok {
		t.Errorf("error type = %T, want *BadSignCounterError", err)
	}
}

func TestAssertionChallenge_NoCredentials(t *testing.T) {
	ctx := context.Background()
	policy := testFlowPolicy(t, false, false)
	stores := Stores{
		Users:       newFakeUserRepo(),
		Credentials: newFakeCredentialRepo(),
		Challenges:  newFakeChallengeStore(),
		Sessions:    newFakeSessionStore(),
	}

	if _, err := CreationChallenge(ctx, stores, policy, "dave", ""); err != nil {
		t.Fatalf("CreationChallenge() error = %v", err)
	}

	_, err := AssertionChallenge(ctx, stores, policy, "dave")
	if err == nil {
		t.Fatal("expected error: user has no registered credentials")
	}
	if _, ok := err.(*CredentialNotFoundError); !ok {
		t.Errorf("error type = %T, want *CredentialNotFoundError", err)
	}
}

func TestAssertionChallenge_UnknownUser(t *testing.T) {
	ctx := context.Background()
	policy := testFlowPolicy(t, false, false)
	stores := Stores{
		Users:       newFakeUserRepo(),
		Credentials: newFakeCredentialRepo(),
		Challenges:  newFakeChallengeStore(),
		Sessions:    newFakeSessionStore(),
	}

	_, err := AssertionChallenge(ctx, stores, policy, "ghost")
	if err == nil {
		t.Fatal("expected error for unknown user")
	}
	if _, ok := err.(*UserNotFoundError); !ok {
		t.Errorf("error type = %T, want *UserNotFoundError", err)
	}
}
