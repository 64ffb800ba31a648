// Package cookiejar persists session tokens in browser cookies, one
// encrypted slot per logical session plus a well-known pointer slot
// naming the browser's currently-active session.
package cookiejar

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

// ActiveSlotName is the well-known pointer slot holding the slot key of
// the most recent login from this browser, enabling soft auto-login in
// new tabs.
const ActiveSlotName = "active_auth_key"

// ErrNotReady is returned when the backend cannot yet guarantee a
// consistent cookie jar; callers must halt the interaction.
var ErrNotReady = errors.New("cookie jar is not ready")

// Backend is the raw named-cookie transport under the jar. Writes are
// buffered until Commit.
type Backend interface {
	Get(name string) (string, bool)
	Set(name, value string)
	Delete(name string)
	Commit() error
	Ready() bool
}

// Jar stores one encrypted value per session slot. Slot keys are plain
// identifiers; values are encrypted at rest with the store-wide secret.
type Jar struct {
	backend Backend
	codec   *securecookie.SecureCookie
	prefix  string
}

// New creates a Jar over the given backend. The secret drives both the
// HMAC and the encryption key; prefix namespaces all cookies of this app.
func New(backend Backend, secret, prefix string) *Jar {
	hashKey := sha256.Sum256([]byte(secret + "|hash"))
	blockKey := sha256.Sum256([]byte(secret + "|block"))
	codec := securecookie.New(hashKey[:], blockKey[:])
	codec.MaxAge(0) // expiry is governed by the cookie itself
	return &Jar{backend: backend, codec: codec, prefix: prefix}
}

// NewSlotKey generates a fresh unguessable session-slot key.
func NewSlotKey() string {
	return "auth_session_" + uuid.NewString()
}

// Ready reports whether the jar can be used for this interaction.
func (j *Jar) Ready() bool {
	return j.backend.Ready()
}

// Put stores an encrypted value under the slot.
// PRE: the jar is ready
// POST: the value is buffered; call Flush to make it durable
func (j *Jar) Put(slot, value string) error {
	if !j.Ready() {
		return ErrNotReady
	}
	name := j.cookieName(slot)
	encoded, err := j.codec.Encode(name, value)
	if err != nil {
		return fmt.Errorf("failed to encrypt cookie slot %q: %w", slot, err)
	}
	j.backend.Set(name, encoded)
	return nil
}

// Get returns the decrypted value for the slot, or "" when the slot is
// empty, missing, or holds a value that no longer decrypts.
func (j *Jar) Get(slot string) (string, error) {
	if !j.Ready() {
		return "", ErrNotReady
	}
	name := j.cookieName(slot)
	raw, ok := j.backend.Get(name)
	if !ok || raw == "" {
		return "", nil
	}
	var value string
	if err := j.codec.Decode(name, raw, &value); err != nil {
		// Undecryptable values (rotated secret, tampering) read as missing.
		return "", nil
	}
	return value, nil
}

// Delete clears the slot.
// POST: the deletion is buffered; call Flush to make it durable
func (j *Jar) Delete(slot string) error {
	if !j.Ready() {
		return ErrNotReady
	}
	j.backend.Delete(j.cookieName(slot))
	return nil
}

// SetActive points the active-session-pointer slot at the given slot key.
// An empty slot key clears the pointer.
func (j *Jar) SetActive(slot string) error {
	if slot == "" {
		return j.Delete(ActiveSlotName)
	}
	return j.Put(ActiveSlotName, slot)
}

// Active returns the slot key named by the active-session-pointer, or "".
func (j *Jar) Active() (string, error) {
	return j.Get(ActiveSlotName)
}

// Flush commits all buffered mutations. A response is not durable until
// Flush has returned nil.
func (j *Jar) Flush() error {
	if err := j.backend.Commit(); err != nil {
		return fmt.Errorf("failed to flush cookie jar: %w", err)
	}
	return nil
}

func (j *Jar) cookieName(slot string) string {
	return j.prefix + "_" + slot
}
