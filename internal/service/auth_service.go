package service

import (
	"crypto/ed25519"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58/base58"

	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/pkg/apperror"
)

// ChallengeTTL — время, за которое клиент должен подписать вызов.
const ChallengeTTL = 5 * time.Minute

// AuthService выдаёт одноразовые вызовы и обменивает их подписи на JWT.
// Пароля нет: клиент доказывает владение приватным ключом ed25519,
// подписывая случайный nonce.
type AuthService struct {
	tokens     *TokenManager
	challenges *CacheService
}

// AuthResult возвращает итог обмена подписи на токен.
type AuthResult struct {
	Identity  address.Address `json:"identity"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(tokens *TokenManager) *AuthService {
	return &AuthService{
		tokens:     tokens,
		challenges: NewCacheService(),
	}
}

// CreateChallenge выдаёт nonce для публичного ключа. Повторный запрос
// перезаписывает предыдущий вызов.
func (s *AuthService) CreateChallenge(pubkey string) (string, error) {
	if _, err := decodePublicKey(pubkey); err != nil {
		return "", err
	}

	nonce := uuid.NewString()
	s.challenges.Set(pubkey, nonce, ChallengeTTL)

	return nonce, nil
}

// VerifyChallenge проверяет подпись nonce и выпускает токен.
// Вызов одноразовый: успешный или нет, он удаляется.
func (s *AuthService) VerifyChallenge(pubkey, signature string) (*AuthResult, error) {
	pub, err := decodePublicKey(pubkey)
	if err != nil {
		return nil, err
	}

	stored, ok := s.challenges.Take(pubkey)
	if !ok {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "вызов не найден или истёк")
	}
	nonce := stored.(string)

	sig, err := base58.Decode(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "подпись должна быть в base58")
	}

	if !ed25519.Verify(pub, []byte(nonce), sig) {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "подпись не прошла проверку")
	}

	identity := address.FromPublicKey(pub)
	token, exp, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токен")
	}

	return &AuthResult{Identity: identity, Token: token, ExpiresAt: exp}, nil
}

func decodePublicKey(pubkey string) (ed25519.PublicKey, error) {
	raw, err := base58.Decode(pubkey)
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "публичный ключ должен быть 32 байта в base58")
	}
	return ed25519.PublicKey(raw), nil
}
