package email

import (
	"context"
	"fmt"
	"time"

	"studiodesk/internal/catalog"
	"studiodesk/internal/logger"
)

const notifyTimeout = 2 * time.Second

type Recipient struct {
	Email string
	Name  string
}

type ContactLookup interface {
	Recipient(ctx context.Context, userID int) (*Recipient, error)
}

// ContactFunc adapts a function to ContactLookup.
type ContactFunc func(ctx context.Context, userID int) (*Recipient, error)

func (f ContactFunc) Recipient(ctx context.Context, userID int) (*Recipient, error) {
	return f(ctx, userID)
}

// Notifier turns engine events into queued mails. Failures are logged and
// never reach the caller.
type Notifier struct {
	mail     *Service
	contacts ContactLookup
	loc      *time.Location
	studio   string
}

func NewNotifier(mail *Service, contacts ContactLookup, loc *time.Location, studioName string) *Notifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Notifier{mail: mail, contacts: contacts, loc: loc, studio: studioName}
}

func (n *Notifier) BookingConfirmed(ctx context.Context, userID int, classTitle string, at time.Time) {
	n.notify(ctx, userID, TypeBookingConfirmed, "Réservation confirmée - "+classTitle, func(name string) string {
		return fmt.Sprintf(`Bonjour %s,

Votre réservation est confirmée.

Cours : %s
Date : %s

Vous pouvez annuler sans perdre votre séance jusqu'à 4 heures avant le début.

- %s`, name, classTitle, n.when(at), n.studio)
	})
}

// BookingCancelled tells the member whether the session came back. debited
// is false for bookings on an unlimited pack.
func (n *Notifier) BookingCancelled(ctx context.Context, userID int, classTitle string, at time.Time, debited, refunded bool) {
	var outcome string
	switch {
	case !debited:
		outcome = "Votre abonnement illimité n'est pas affecté."
	case refunded:
		outcome = "La séance a été recréditée sur votre abonnement."
	default:
		outcome = "L'annulation est intervenue moins de 4 heures avant le début : la séance est décomptée."
	}
	n.notify(ctx, userID, TypeBookingCancelled, "Réservation annulée - "+classTitle, func(name string) string {
		return fmt.Sprintf(`Bonjour %s,

Votre réservation a été annulée.

Cours : %s
Date : %s

%s

- %s`, name, classTitle, n.when(at), outcome, n.studio)
	})
}

func (n *Notifier) SubscriptionActivated(ctx context.Context, userID int, packCode string, sessions int, endDate time.Time) {
	credit := fmt.Sprintf("%d séance(s)", sessions)
	if sessions == catalog.UnlimitedSessions {
		credit = "séances illimitées"
	}
	n.notify(ctx, userID, TypeSubscriptionActivated, "Votre abonnement est actif", func(name string) string {
		return fmt.Sprintf(`Bonjour %s,

Votre abonnement %s est actif : %s, valable jusqu'au %s.

- %s`, name, packCode, credit, endDate.In(n.loc).Format("02/01/2006"), n.studio)
	})
}

// ClientCreated sends the welcome mail with the temporary password to a
// member registered at the desk.
func (n *Notifier) ClientCreated(ctx context.Context, to, fullName, temporaryPassword string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	body := fmt.Sprintf(`Bonjour %s,

Votre compte a été créé à l'accueil.

Identifiant : %s
Mot de passe provisoire : %s

Pensez à le modifier depuis votre profil.

- %s`, fullName, to, temporaryPassword, n.studio)

	if err := n.mail.Send(ctx, TypeWelcome, to, fullName, "Bienvenue chez "+n.studio, body); err != nil {
		logger.Warn("welcome mail not queued", "to", to, "error", err)
	}
}

func (n *Notifier) notify(ctx context.Context, userID int, mailType, subject string, body func(name string) string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	r, err := n.contacts.Recipient(ctx, userID)
	if err != nil {
		logger.Warn("no recipient for notification", "type", mailType, "user_id", userID, "error", err)
		return
	}
	if err := n.mail.Send(ctx, mailType, r.Email, r.Name, subject, body(r.Name)); err != nil {
		logger.Warn("notification not queued", "type", mailType, "user_id", userID, "error", err)
	}
}

func (n *Notifier) when(at time.Time) string {
	return at.In(n.loc).Format("02/01/2006 à 15:04")
}
