package user

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"studiodesk/internal/apperr"
	"studiodesk/internal/auth"
	"studiodesk/internal/logger"
	"studiodesk/internal/reservation"
	"studiodesk/internal/subscription"

	"github.com/google/uuid"
)

const temporaryPasswordLength = 12

type SubscriptionService interface {
	ListByUser(ctx context.Context, userID int) ([]subscription.Subscription, error)
	SellWalkIn(ctx context.Context, req subscription.WalkInRequest) (*subscription.Subscription, error)
}

type ReservationService interface {
	ListByUser(ctx context.Context, userID int) ([]reservation.View, error)
}

type WelcomeNotifier interface {
	ClientCreated(ctx context.Context, to, fullName, temporaryPassword string)
}

type Options struct {
	JWTSecret     string
	Location      *time.Location
	Now           func() time.Time
	Subscriptions SubscriptionService
	Reservations  ReservationService
	Notifier      WelcomeNotifier
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error)
	Profile(ctx context.Context, userID int) (*Profile, error)
	Contact(ctx context.Context, userID int) (*Contact, error)
	CreateClient(ctx context.Context, req CreateClientRequest) (*CreateClientResponse, error)
	ListClients(ctx context.Context, search string) ([]ClientSummary, error)
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo      Repository
	jwtSecret string
	loc       *time.Location
	now       func() time.Time
	subs      SubscriptionService
	res       ReservationService
	notifier  WelcomeNotifier
}

func NewService(repo Repository, opts Options) Service {
	s := &service{
		repo:      repo,
		jwtSecret: opts.JWTSecret,
		loc:       opts.Location,
		now:       opts.Now,
		subs:      opts.Subscriptions,
		res:       opts.Reservations,
		notifier:  opts.Notifier,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	u, err := s.createUser(ctx, req.Email, req.Password, req.FullName, req.Phone)
	if err != nil {
		return nil, err
	}
	logger.Info("user registered", "user_id", u.ID)
	return s.issueTokens(u)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	invalid := apperr.New(apperr.KindUnauthorized, "invalid email or password")

	u, err := s.repo.FindByEmail(ctx, normalizeEmail(req.Email))
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, invalid
	}
	return s.issueTokens(u)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	access, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthorized, err, "invalid or expired refresh token")
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{AccessToken: access, User: *u}, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fullName, phone := u.FullName, u.Phone
	if req.FullName != nil {
		fullName = strings.TrimSpace(*req.FullName)
		if fullName == "" {
			return nil, apperr.Validationf("full name must not be empty")
		}
	}
	if req.Phone != nil {
		phone = strings.TrimSpace(*req.Phone)
	}
	return s.repo.UpdateProfile(ctx, userID, fullName, phone)
}

// Profile is the member's own view: every subscription with its payments,
// every reservation, and the subscription a booking would use now.
func (s *service) Profile(ctx context.Context, userID int) (*Profile, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views, err := s.res.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:          *u,
		Current:       currentSubscription(subs, s.now()),
		Subscriptions: subs,
		Reservations:  views,
	}, nil
}

// currentSubscription picks the usable subscription ending first, the same
// one a booking would draw on.
func currentSubscription(subs []subscription.Subscription, now time.Time) *subscription.Subscription {
	usable := make([]subscription.Subscription, 0, len(subs))
	for _, sub := range subs {
		if sub.UsableAt(now) && sub.EndDate != nil {
			usable = append(usable, sub)
		}
	}
	if len(usable) == 0 {
		return nil
	}
	sort.Slice(usable, func(i, j int) bool {
		if !usable[i].EndDate.Equal(*usable[j].EndDate) {
			return usable[i].EndDate.Before(*usable[j].EndDate)
		}
		return usable[i].ID < usable[j].ID
	})
	return &usable[0]
}

func (s *service) Contact(ctx context.Context, userID int) (*Contact, error) {
	return s.repo.Contact(ctx, userID)
}

// CreateClient registers a member at the desk with a temporary password and
// sells them a pack when asked. The account is kept if the sale fails; the
// error then carries the new user id so the sale can be retried on its own.
func (s *service) CreateClient(ctx context.Context, req CreateClientRequest) (*CreateClientResponse, error) {
	password := temporaryPassword()
	u, err := s.createUser(ctx, req.Email, password, req.FullName, req.Phone)
	if err != nil {
		return nil, err
	}
	logger.Info("client created at the desk", "user_id", u.ID)

	resp := &CreateClientResponse{User: *u, TemporaryPassword: password}
	if req.Sale != nil {
		sub, err := s.subs.SellWalkIn(ctx, subscription.WalkInRequest{
			UserID:     u.ID,
			PackCode:   req.Sale.PackCode,
			Method:     req.Sale.Method,
			Reference:  req.Sale.Reference,
			AmountPaid: req.Sale.AmountPaid,
			StartDate:  req.Sale.StartDate,
		})
		if err != nil {
			return nil, withUserID(err, u.ID)
		}
		resp.Subscription = sub
	}

	if s.notifier != nil {
		s.notifier.ClientCreated(ctx, u.Email, u.FullName, password)
	}
	return resp, nil
}

func (s *service) ListClients(ctx context.Context, search string) ([]ClientSummary, error) {
	clients, err := s.repo.ListClients(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	now := s.now()
	expired := string(subscription.StatusExpired)
	for i := range clients {
		c := &clients[i]
		if c.LatestStatus != nil && *c.LatestStatus == string(subscription.StatusActive) &&
			c.LatestEndDate != nil && c.LatestEndDate.Before(now) {
			c.LatestStatus = &expired
		}
	}
	return clients, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	now := s.now()
	n := now.In(s.loc)
	dayStart := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, s.loc)
	return s.repo.Stats(ctx, now, dayStart, dayStart.AddDate(0, 0, 1))
}

func (s *service) createUser(ctx context.Context, email, password, fullName, phone string) (*User, error) {
	email = normalizeEmail(email)
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.New(apperr.KindConflict, "email already registered").With("email", email)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err, "hash password")
	}

	return s.repo.Create(ctx, User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(fullName),
		Phone:        strings.TrimSpace(phone),
		Role:         auth.RoleClient,
	})
}

func (s *service) issueTokens(u *User) (*LoginResponse, error) {
	access, refresh, err := auth.GenerateTokens(u.ID, u.Email, u.Role, s.jwtSecret)
	if err != nil {
		return nil, apperr.Internal(err, "generate tokens")
	}
	return &LoginResponse{AccessToken: access, RefreshToken: refresh, User: *u}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func temporaryPassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:temporaryPasswordLength]
}

func withUserID(err error, userID int) error {
	var e *apperr.Error
	if !errors.As(err, &e) {
		return err
	}
	return e.With("user_id", userID)
}
