package config

import "os"

// Secret names resolved through SecretStore.
const (
	SecretOpenAIKey = "OPENAI_API_KEY"
	SecretJWT       = "JWT_SECRET"
)

// SecretStore resolves named secrets at call time. Services that must pick
// up credential changes without a restart (the generation flow reads its API
// key on every request) depend on this instead of a value captured at boot.
type SecretStore interface {
	Get(name string) string
}

type envSecretStore struct{}

// NewEnvSecrets returns a SecretStore backed by process environment.
func NewEnvSecrets() SecretStore {
	return envSecretStore{}
}

func (envSecretStore) Get(name string) string {
	return os.Getenv(name)
}
