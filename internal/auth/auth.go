// Package auth registers and signs in local users and remembers the
// current session across restarts.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/brianquiz/brianquiz/internal/kv"
	"github.com/brianquiz/brianquiz/internal/quiz"
)

const (
	UsersKey   = "users"
	SessionKey = "session/current"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidUsername    = errors.New("username must be 3-32 characters without spaces")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// Options configures a Service.
type Options struct {
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	Logger     zerolog.Logger
}

// Service owns the registered-users table and the current session record.
type Service struct {
	kv       kv.Store
	cost     int
	validate *validator.Validate
	log      zerolog.Logger
}

type credentials struct {
	Username string `validate:"required,min=3,max=32,nospace"`
}

// New creates a Service on store.
func New(store kv.Store, opts Options) *Service {
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("nospace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
	})
	return &Service{
		kv:       store,
		cost:     cost,
		validate: v,
		log:      opts.Logger.With().Str("component", "auth").Logger(),
	}
}

// Register creates a user and signs them in.
func (s *Service) Register(ctx context.Context, username, password string) (quiz.User, error) {
	username = strings.TrimSpace(username)
	if err := s.validate.Struct(credentials{Username: username}); err != nil {
		return quiz.User{}, ErrInvalidUsername
	}
	if st := CheckStrength(password); !st.Valid() {
		return quiz.User{}, &PolicyError{Unmet: st.Unmet()}
	}

	users, err := s.users(ctx)
	if err != nil {
		return quiz.User{}, err
	}
	if _, ok := findUser(users, username); ok {
		return quiz.User{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return quiz.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := quiz.User{ID: uuid.NewString(), Username: username, PasswordHash: string(hash)}
	if err := s.saveUsers(ctx, append(users, u)); err != nil {
		return quiz.User{}, err
	}
	s.log.Info().Str("user", u.ID).Msg("user registered")

	if err := s.saveSession(ctx, u); err != nil {
		return quiz.User{}, err
	}
	return u.Public(), nil
}

// Login checks credentials case-insensitively on the username and persists
// the session.
func (s *Service) Login(ctx context.Context, username, password string) (quiz.User, error) {
	users, err := s.users(ctx)
	if err != nil {
		return quiz.User{}, err
	}
	i, ok := findUser(users, strings.TrimSpace(username))
	if !ok {
		return quiz.User{}, ErrInvalidCredentials
	}
	u := users[i]
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return quiz.User{}, ErrInvalidCredentials
	}
	if err := s.saveSession(ctx, u); err != nil {
		return quiz.User{}, err
	}
	s.log.Info().Str("user", u.ID).Msg("user signed in")
	return u.Public(), nil
}

// Current returns the persisted session's user, or nil if nobody is signed
// in. A corrupt record or one naming a deleted user counts as signed out.
func (s *Service) Current(ctx context.Context) (*quiz.User, error) {
	blob, ok, err := s.kv.Load(ctx, SessionKey)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var sess quiz.User
	if err := json.Unmarshal(blob, &sess); err != nil || sess.ID == "" {
		s.log.Warn().Err(err).Msg("corrupt session record, ignoring")
		return nil, nil
	}

	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == sess.ID {
			pub := u.Public()
			return &pub, nil
		}
	}
	s.log.Warn().Str("user", sess.ID).Msg("session names unknown user, ignoring")
	return nil, nil
}

// Logout forgets the current session.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.kv.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Lookup returns the user with the given username.
func (s *Service) Lookup(ctx context.Context, username string) (quiz.User, error) {
	users, err := s.users(ctx)
	if err != nil {
		return quiz.User{}, err
	}
	i, ok := findUser(users, strings.TrimSpace(username))
	if !ok {
		return quiz.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	return users[i].Public(), nil
}

// UpdateProfile changes the username and avatar of u.ID. The new username
// must still be valid and unique.
func (s *Service) UpdateProfile(ctx context.Context, u quiz.User) (quiz.User, error) {
	u.Username = strings.TrimSpace(u.Username)
	if err := s.validate.Struct(credentials{Username: u.Username}); err != nil {
		return quiz.User{}, ErrInvalidUsername
	}

	users, err := s.users(ctx)
	if err != nil {
		return quiz.User{}, err
	}
	idx := -1
	for i, existing := range users {
		if existing.ID == u.ID {
			idx = i
		} else if strings.EqualFold(existing.Username, u.Username) {
			return quiz.User{}, ErrUsernameTaken
		}
	}
	if idx < 0 {
		return quiz.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, u.ID)
	}

	users[idx].Username = u.Username
	users[idx].Avatar = strings.TrimSpace(u.Avatar)
	if err := s.saveUsers(ctx, users); err != nil {
		return quiz.User{}, err
	}
	if err := s.saveSession(ctx, users[idx]); err != nil {
		return quiz.User{}, err
	}
	return users[idx].Public(), nil
}

func (s *Service) users(ctx context.Context) ([]quiz.User, error) {
	blob, ok, err := s.kv.Load(ctx, UsersKey)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var users []quiz.User
	if err := json.Unmarshal(blob, &users); err != nil {
		s.log.Warn().Err(err).Msg("corrupt users table, starting empty")
		return nil, nil
	}
	return users, nil
}

func (s *Service) saveUsers(ctx context.Context, users []quiz.User) error {
	blob, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := s.kv.Save(ctx, UsersKey, blob); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

func (s *Service) saveSession(ctx context.Context, u quiz.User) error {
	blob, err := json.Marshal(u.Public())
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Save(ctx, SessionKey, blob); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func findUser(users []quiz.User, username string) (int, bool) {
	for i, u := range users {
		if strings.EqualFold(u.Username, username) {
			return i, true
		}
	}
	return -1, false
}
