package account

import (
	"context"

	"github.com/smplatform/identity/errors"
	"github.com/smplatform/identity/logger"
	"github.com/smplatform/identity/password"
	"github.com/smplatform/identity/token"
	"github.com/smplatform/identity/validation"
)

// Token is the issued credential response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ExternalIdentity is a third-party identity whose proof has already been
// verified by the caller. Subject is the provider's stable id for the
// user; Email doubles as the local username.
type ExternalIdentity struct {
	Email   string
	Name    string
	Subject string
}

// Service wires credential storage, password hashing, and token issuance
// into the registration and login flows.
type Service struct {
	store  Store
	hasher password.Hasher
	codec  *token.Codec
	grants []int
	log    *logger.Logger
}

// NewService creates an account service.
func NewService(store Store, hasher password.Hasher, codec *token.Codec, cfg Config, log *logger.Logger) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:  store,
		hasher: hasher,
		codec:  codec,
		grants: cfg.DefaultGrants,
		log:    log.WithComponent("account"),
	}, nil
}

type registerInput struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
}

// Register creates an account and returns a token for it. The username
// must be free; a taken username yields CONFLICT.
func (s *Service) Register(ctx context.Context, username, passwd string) (*Token, error) {
	if err := validation.Validate(registerInput{Username: username, Password: passwd}); err != nil {
		return nil, err
	}

	existing, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Conflict("username already registered")
	}

	hash, err := s.hasher.Hash(passwd)
	if err != nil {
		return nil, errors.Validation(err.Error())
	}

	if _, err := s.store.Create(ctx, &Credential{Username: username, Password: hash}); err != nil {
		return nil, err
	}

	s.log.Info("account registered", logger.Fields(logger.FieldUsername, username))
	return s.issue(username)
}

// Login verifies a username and password and returns a token. Unknown
// usernames and wrong passwords produce the same UNAUTHENTICATED error,
// so a caller cannot probe which usernames exist.
func (s *Service) Login(ctx context.Context, username, passwd string) (*Token, error) {
	if err := validation.Validate(registerInput{Username: username, Password: passwd}); err != nil {
		return nil, err
	}

	cred, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if cred == nil || s.hasher.Verify(passwd, cred.Password) != nil {
		return nil, errors.Unauthenticated("invalid username or password")
	}

	s.log.Info("login", logger.Fields(logger.FieldUsername, username))
	return s.issue(username)
}

// ExternalLogin signs in a user through an already-verified third-party
// identity. First sight of an identity provisions a local record whose
// password is the hash of the provider subject id, which never matches a
// local login attempt.
func (s *Service) ExternalLogin(ctx context.Context, identity ExternalIdentity) (*Token, error) {
	v := validation.New().
		Required("email", identity.Email).
		Pattern("email", identity.Email, `^[^@\s]+@[^@\s]+$`).
		Required("subject", identity.Subject)
	if err := v.Validate(); err != nil {
		return nil, err
	}

	cred, err := s.store.FindByUsername(ctx, identity.Email)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		hash, err := s.hasher.Hash(identity.Subject)
		if err != nil {
			return nil, errors.Internal(err)
		}
		cred = &Credential{
			Username: identity.Email,
			Password: hash,
			GoogleID: &identity.Subject,
		}
		if identity.Name != "" {
			cred.FullName = &identity.Name
		}
		if _, err := s.store.Create(ctx, cred); err != nil {
			// A concurrent first sight of the same identity may have
			// provisioned the record between the lookup and the insert.
			// The account exists either way, so the sign-in proceeds.
			if !errors.HasCode(err, errors.ErrCodeConflict) {
				return nil, err
			}
			s.log.Info("external account already provisioned", logger.Fields(logger.FieldUsername, identity.Email))
		} else {
			s.log.Info("external account provisioned", logger.Fields(logger.FieldUsername, identity.Email))
		}
	}

	return s.issue(identity.Email)
}

// Authorize verifies a bearer token and checks that it carries every
// required grant. On success the decoded claims are returned for
// downstream use, typically via token.NewContext.
func (s *Service) Authorize(ctx context.Context, tokenString string, required ...int) (token.Claims, error) {
	return s.codec.Verify(tokenString, required...)
}

func (s *Service) issue(username string) (*Token, error) {
	signed, err := s.codec.IssueAccess(username, s.grants)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return &Token{AccessToken: signed, TokenType: "bearer"}, nil
}
